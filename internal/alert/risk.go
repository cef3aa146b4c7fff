package alert

// RiskTier classifies the inherent hazard of an object class.
type RiskTier string

const (
	RiskHigh   RiskTier = "high"   // Large or fast hazards: motorized vehicles, trains
	RiskMedium RiskTier = "medium" // Human/animal-scale moving hazards
	RiskLow    RiskTier = "low"    // Everything else, including unrecognized classes
)

// DistanceTier classifies proximity to the wearer.
type DistanceTier string

const (
	DistanceVeryClose DistanceTier = "very_close"
	DistanceNear      DistanceTier = "near"
	DistanceFar       DistanceTier = "far"
	DistanceClear     DistanceTier = "clear"
)

// highRiskClasses are large or fast-moving hazards that warrant a "Vehicle"
// announcement.
var highRiskClasses = map[string]bool{
	"car":        true,
	"truck":      true,
	"bus":        true,
	"motorcycle": true,
	"train":      true,
}

// mediumRiskClasses are human/animal-scale movers.
var mediumRiskClasses = map[string]bool{
	"person":  true,
	"bicycle": true,
	"dog":     true,
	"cat":     true,
	"horse":   true,
}

// ClassifyRisk maps an object class label to a risk tier. Unrecognized
// labels default to low risk; classification never errors.
func ClassifyRisk(class string) RiskTier {
	switch {
	case highRiskClasses[class]:
		return RiskHigh
	case mediumRiskClasses[class]:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Priority returns the integer arbitration weight of a risk tier.
func (r RiskTier) Priority() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	default:
		return 1
	}
}

// DistanceBounds holds the tier boundaries in meters. Boundaries are
// inclusive on the lower (closer) tier.
type DistanceBounds struct {
	VeryCloseMax float64
	NearMax      float64
	FarMax       float64
}

// DefaultDistanceBounds returns the deployed boundary set.
func DefaultDistanceBounds() DistanceBounds {
	return DistanceBounds{
		VeryCloseMax: 1.2,
		NearMax:      3.0,
		FarMax:       6.0,
	}
}

// Classify maps a distance in meters to its tier. Values beyond FarMax
// (including the missing-distance sentinel) are CLEAR.
func (b DistanceBounds) Classify(meters float64) DistanceTier {
	switch {
	case meters <= b.VeryCloseMax:
		return DistanceVeryClose
	case meters <= b.NearMax:
		return DistanceNear
	case meters <= b.FarMax:
		return DistanceFar
	default:
		return DistanceClear
	}
}

// ClassifyDistance classifies with the default boundaries.
func ClassifyDistance(meters float64) DistanceTier {
	return DefaultDistanceBounds().Classify(meters)
}

// Priority returns the integer arbitration weight of a distance tier.
func (d DistanceTier) Priority() int {
	switch d {
	case DistanceVeryClose:
		return 3
	case DistanceNear:
		return 2
	case DistanceFar:
		return 1
	default:
		return 0
	}
}
