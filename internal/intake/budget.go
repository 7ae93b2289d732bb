package intake

import (
	"regexp"
	"strconv"
	"strings"
)

// Indian tender notices quote estimated costs in lakh and crore as
// often as in plain rupees. amountRe captures the number together with
// its optional scale word.
var amountRe = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr)?\s*([\d,]+(?:\.\d+)?)\s*(lakhs?|crores?|lacs?)?`)

const (
	lakh  = 100_000
	crore = 10_000_000
)

// ParseBudgetINR extracts the estimated value range from pricing text.
// A single amount is treated as the maximum unless the text says
// "minimum" or "at least". Returns (0, 0) when no amount is present.
func ParseBudgetINR(text string) (minINR, maxINR float64) {
	lower := strings.ToLower(text)

	var amounts []float64
	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		clean := strings.ReplaceAll(m[1], ",", "")
		val, err := strconv.ParseFloat(clean, 64)
		if err != nil || val <= 0 {
			continue
		}
		switch {
		case strings.HasPrefix(strings.ToLower(m[2]), "lakh"), strings.HasPrefix(strings.ToLower(m[2]), "lac"):
			val *= lakh
		case strings.HasPrefix(strings.ToLower(m[2]), "crore"):
			val *= crore
		}
		amounts = append(amounts, val)
	}
	if len(amounts) == 0 {
		return 0, 0
	}

	if len(amounts) == 1 {
		if strings.Contains(lower, "minimum") || strings.Contains(lower, "at least") {
			return amounts[0], 0
		}
		return 0, amounts[0]
	}

	minINR, maxINR = amounts[0], amounts[0]
	for _, a := range amounts {
		if a < minINR {
			minINR = a
		}
		if a > maxINR {
			maxINR = a
		}
	}
	return minINR, maxINR
}
