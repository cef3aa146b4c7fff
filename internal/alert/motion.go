package alert

import "gonum.org/v1/gonum/stat"

// MotionStatus is the inferred direction of travel relative to the wearer.
type MotionStatus string

const (
	MotionApproaching MotionStatus = "approaching"
	MotionReceding    MotionStatus = "receding"
	MotionStationary  MotionStatus = "stationary"
)

// MotionConfig holds the thresholds for area-trend motion inference.
type MotionConfig struct {
	ApproachRatio float64 // ratio at or above which the object is approaching
	RecedeRatio   float64 // ratio at or below which the object is receding
	HistoryLength int     // bounded size-history cap
}

// DefaultMotionConfig returns the deployed inference thresholds.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		ApproachRatio: 1.05,
		RecedeRatio:   0.95,
		HistoryLength: 5,
	}
}

// InferMotion derives a motion verdict from the bounded history of
// bounding-box areas, oldest first. The growth ratio of apparent size is a
// proxy for closing speed, independent of the externally supplied distance
// estimate.
//
// With fewer than two samples there is no trend. With exactly two, the
// ratio is newest/oldest. With three or more, the mean of the two most
// recent samples is compared against the mean of all earlier ones, which
// damps single-frame bbox jitter.
func InferMotion(history []float64, cfg MotionConfig) MotionStatus {
	if len(history) < 2 {
		return MotionStationary
	}

	var ratio float64
	if len(history) == 2 {
		if history[0] == 0 {
			return MotionStationary
		}
		ratio = history[1] / history[0]
	} else {
		recent := stat.Mean(history[len(history)-2:], nil)
		older := stat.Mean(history[:len(history)-2], nil)
		if older == 0 {
			return MotionStationary
		}
		ratio = recent / older
	}

	switch {
	case ratio >= cfg.ApproachRatio:
		return MotionApproaching
	case ratio <= cfg.RecedeRatio:
		return MotionReceding
	default:
		return MotionStationary
	}
}
