package scoring

import "math"

// The scoring curves live here as standalone functions with explicit
// parameters so each shape can be tested in isolation from catalog
// lookups.

// DecayWeightedMean averages the values with exponentially decaying
// rank weights: value i carries weight e^(-decay*i). Returns 0 for an
// empty input.
func DecayWeightedMean(values []float64, decay float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum, weight float64
	for i, v := range values {
		w := math.Exp(-decay * float64(i))
		sum += v * w
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

// MultiMatchBonus rewards having several strong candidates: one strong
// match is neutral, each additional one adds 5%, capped at 15%.
func MultiMatchBonus(strongCount int) float64 {
	return math.Min(1.0+float64(strongCount-1)*0.05, 1.15)
}

// MarginLogistic maps a profit margin onto 0-100 with a logistic
// penalty centred on the ideal margin. Deviations inside the tolerance
// band score near 100; outside it the score falls off steeply.
func MarginLogistic(margin, ideal, tolerance float64) float64 {
	deviation := math.Abs(margin - ideal)
	return 100 / (1 + math.Exp(10*(deviation-tolerance)))
}

// LeadTimeBase converts an average lead time in days to a base
// deliverability score. 15 days or less scores 100; each extra day
// costs 0.8 points, floored at 40.
func LeadTimeBase(avgLeadTimeDays float64) float64 {
	return math.Max(40, 100-(avgLeadTimeDays-15)*0.8)
}

func clamp01to100(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
