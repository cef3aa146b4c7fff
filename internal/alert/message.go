package alert

// BuildMessage maps (risk tier, distance tier, motion, class, position) to
// the alert text, or "" for silence. It is a pure function; the exact wording
// is a behavioral contract with the wearer and the tests.
//
// The table errs toward silence everywhere except VERY_CLOSE, which always
// produces an announcement.
func BuildMessage(risk RiskTier, dist DistanceTier, motion MotionStatus, class string, pos Position) string {
	switch dist {
	case DistanceVeryClose:
		return veryCloseMessage(risk, motion, class, pos)
	case DistanceNear:
		return nearMessage(risk, motion, class)
	case DistanceFar:
		return farMessage(risk, motion, class)
	default:
		return ""
	}
}

func farMessage(risk RiskTier, motion MotionStatus, class string) string {
	if motion != MotionApproaching {
		return ""
	}
	switch risk {
	case RiskHigh:
		return "Vehicle approaching ahead."
	case RiskMedium:
		if class == "person" {
			return "Person approaching."
		}
		return class + " approaching."
	default:
		return ""
	}
}

func nearMessage(risk RiskTier, motion MotionStatus, class string) string {
	if motion == MotionApproaching {
		switch risk {
		case RiskHigh:
			return "Vehicle approaching. Stay alert."
		case RiskMedium:
			if class == "person" {
				return "Person approaching."
			}
			return class + " approaching."
		default:
			return "Obstacle approaching."
		}
	}

	// Stationary and receding share the calmer wording.
	switch risk {
	case RiskHigh:
		return "Vehicle nearby."
	case RiskMedium:
		if class == "person" {
			return "Person nearby."
		}
		return ""
	default:
		return ""
	}
}

// veryCloseMessage never returns silence: VERY_CLOSE is the one tier
// engineered to always speak.
func veryCloseMessage(risk RiskTier, motion MotionStatus, class string, pos Position) string {
	dir := ""
	switch pos {
	case PositionLeft:
		dir = " on left"
	case PositionRight:
		dir = " on right"
	}
	// Slots that require a direction word fall back to " ahead" when the
	// object is centered or its position is unknown.
	dirOrAhead := dir
	if dirOrAhead == "" {
		dirOrAhead = " ahead"
	}

	approaching := motion == MotionApproaching

	switch risk {
	case RiskHigh:
		msg := "Stop. Vehicle very close" + dir + "."
		if approaching {
			msg += " Moving."
		}
		return msg
	case RiskMedium:
		if class == "person" {
			if approaching {
				return "Careful. Person approaching" + dirOrAhead + "."
			}
			return "Careful. Person" + dirOrAhead + "."
		}
		if approaching {
			return "Stop. " + class + " approaching" + dir + "."
		}
		return "Stop. " + class + dirOrAhead + "."
	default:
		if approaching {
			return "Obstacle approaching" + dirOrAhead + "."
		}
		return "Obstacle" + dirOrAhead + ". Stop."
	}
}
