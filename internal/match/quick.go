package match

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/rakesh/rfp-evaluator/internal/models"
)

// The quick matcher is a coarse whole-document pass used only to feed
// the viability scorer. It checks at most three dimensions (voltage,
// conductor material family, insulation family) and never produces the
// final per-line-item recommendations.

const quickMatchLimit = 10

var (
	punctRe   = regexp.MustCompile(`[^\w\s]`)
	voltageRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kv|v\b)`)
	nonWordRe = regexp.MustCompile(`[\W_]`)
)

// NormalizeText lowercases the input and replaces punctuation with
// spaces so keyword checks see clean word boundaries.
func NormalizeText(s string) string {
	return punctRe.ReplaceAllString(strings.ToLower(s), " ")
}

// ExtractVoltageToken returns the first voltage-looking token in the
// text with internal spaces removed ("11 kV" becomes "11kv"), or "" if
// none is present.
func ExtractVoltageToken(text string) string {
	m := voltageRe.FindString(strings.ToLower(text))
	if m == "" {
		return ""
	}
	return strings.ReplaceAll(m, " ", "")
}

func hasAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// QuickMatch scans the product catalog against an opportunity's
// combined free text and returns up to 10 candidates ranked by match
// percentage. Each evaluable dimension contributes one point of a
// variable denominator; products with no evaluable dimension are
// skipped. An empty result means insufficient signal, not an error.
func QuickMatch(combinedText string, products []models.CatalogProduct) []models.SpecMatch {
	text := NormalizeText(combinedText)
	rfpVoltage := ExtractVoltageToken(text)

	wantCopper := hasAny(text, "copper", "cu ")
	wantAluminium := !wantCopper && hasAny(text, "aluminium", "aluminum", "al ")
	wantXLPE := hasAny(text, "xlpe", "cross linked")
	wantPVC := !wantXLPE && hasAny(text, "pvc")

	var matches []models.SpecMatch
	for _, p := range products {
		score, total := 0, 0

		if rfpVoltage != "" {
			total++
			prodV := nonWordRe.ReplaceAllString(strings.ToLower(p.VoltageRating), "")
			if prodV != "" && (strings.Contains(prodV, rfpVoltage) || strings.Contains(rfpVoltage, prodV)) {
				score++
			}
		}

		material := strings.ToLower(p.ConductorMaterial)
		if wantCopper {
			total++
			if strings.Contains(material, "copper") {
				score++
			}
		} else if wantAluminium {
			total++
			if strings.Contains(material, "alum") || strings.Contains(material, "al") {
				score++
			}
		}

		insulation := strings.ToLower(p.InsulationType)
		if wantXLPE {
			total++
			if strings.Contains(insulation, "xlpe") {
				score++
			}
		} else if wantPVC {
			total++
			if strings.Contains(insulation, "pvc") {
				score++
			}
		}

		if total == 0 {
			continue
		}
		pct := round2(float64(score) / float64(total) * 100)
		if pct <= 0 {
			continue
		}
		matches = append(matches, models.SpecMatch{
			ProductID:    p.ID,
			ProductName:  p.Name,
			SpecMatchPct: pct,
			Category:     p.Category,
			BISCertified: p.BISCertified,
			UnitPriceINR: p.UnitPriceINR,
			MOQMeters:    p.MinOrderQtyMeters,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SpecMatchPct > matches[j].SpecMatchPct
	})
	if len(matches) > quickMatchLimit {
		matches = matches[:quickMatchLimit]
	}
	return matches
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
