package scoring

// Band labels. Every threshold is inclusive on its lower bound.
const (
	MaterialityLow    = "Low Risk"
	MaterialityMedium = "Medium Risk"
	MaterialityHigh   = "High Risk"

	RatingStrong   = "Strong"
	RatingGood     = "Good"
	RatingModerate = "Moderate"
	RatingWeak     = "Weak"

	PriorityNone   = "Not a priority"
	PriorityLow    = "Low priority"
	PriorityNormal = "Priority"
	PriorityHigh   = "High priority"
)

// MaterialityBand classifies a materiality score. NaN falls into the lowest band.
func MaterialityBand(score float64) string {
	switch {
	case score >= 4:
		return MaterialityLow
	case score >= 2:
		return MaterialityMedium
	default:
		return MaterialityHigh
	}
}

// RatingBand classifies a due-diligence, mitigation or combined score.
func RatingBand(score float64) string {
	switch {
	case score >= 3:
		return RatingStrong
	case score >= 2:
		return RatingGood
	case score >= 1:
		return RatingModerate
	default:
		return RatingWeak
	}
}

// PriorityBand classifies a priority score.
func PriorityBand(score float64) string {
	switch {
	case score >= 3:
		return PriorityNone
	case score >= 2:
		return PriorityLow
	case score >= 1:
		return PriorityNormal
	default:
		return PriorityHigh
	}
}

// Highlight is the colour cue the score tables use: red below 1, orange below 2,
// yellow below 3.
func Highlight(score float64) string {
	switch {
	case score >= 3:
		return ""
	case score >= 2:
		return "yellow"
	case score >= 1:
		return "orange"
	default:
		return "red"
	}
}

// CategoryHighlight is the coarser cue of the single-category reports.
func CategoryHighlight(score float64) string {
	switch {
	case score >= 2:
		return ""
	case score >= 1:
		return "yellow"
	default:
		return "red"
	}
}

func mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
