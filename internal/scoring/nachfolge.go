package scoring

import "math"

const (
	MinNachfolgeScore = 1
	MaxNachfolgeScore = 10
)

// ScoreVariant is the three-tier badge classification of a Nachfolge score
type ScoreVariant string

const (
	VariantHigh   ScoreVariant = "high"
	VariantMedium ScoreVariant = "medium"
	VariantLow    ScoreVariant = "low"
)

// Marker colours per variant
const (
	ColorHigh   = "#EF4444"
	ColorMedium = "#F59E0B"
	ColorLow    = "#10B981"
)

// NachfolgeScore maps a shareholder age onto the 1-10 succession scale.
// Unknown ages score 1. 65+ scores 10, 55-64 ramps from 7 and is capped at 9,
// below 55 ramps from 1 to 6.
func NachfolgeScore(age *int) int {
	if age == nil {
		return MinNachfolgeScore
	}

	a := *age
	switch {
	case a >= 65:
		return MaxNachfolgeScore
	case a >= 55:
		ageInRange := float64(a - 55)
		return min(9, roundHalfUp(7+(ageInRange/10)*3))
	default:
		return min(6, max(1, roundHalfUp((float64(a)/55)*6)))
	}
}

// ScoreVariantFor classifies a score for badge styling
func ScoreVariantFor(score int) ScoreVariant {
	switch {
	case score >= 10:
		return VariantHigh
	case score >= 7:
		return VariantMedium
	default:
		return VariantLow
	}
}

// ScoreColor returns the map marker colour for a score
func ScoreColor(score int) string {
	switch ScoreVariantFor(score) {
	case VariantHigh:
		return ColorHigh
	case VariantMedium:
		return ColorMedium
	default:
		return ColorLow
	}
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
