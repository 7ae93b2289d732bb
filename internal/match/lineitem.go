package match

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rakesh/rfp-evaluator/internal/models"
)

// The line-item matcher is the fine-grained pass: every catalog product
// is scored against each line item on six fixed dimensions, each an
// exact case-insensitive substring test of the product's field value in
// the item text. This is deliberately not fuzzy; the pricing engine
// depends on the same products matching for the same texts.

const (
	lineItemDimensions = 6
	topMatchLimit      = 5
)

var dimensionOrder = []string{"voltage", "material", "insulation", "cores", "armoring", "standards"}

func productDimensions(p models.CatalogProduct) map[string]string {
	return map[string]string{
		"voltage":    p.VoltageRating,
		"material":   p.ConductorMaterial,
		"insulation": p.InsulationType,
		"cores":      p.CoreCount,
		"armoring":   p.Armoring,
		"standards":  p.Standards,
	}
}

// MatchLineItem scores every catalog product against one line item and
// returns the ranked result. Percentage is matched dimensions out of 6,
// rounded to 2 decimals; products matching nothing are excluded. The
// selected match is the head of the top list, nil when the list is
// empty.
func MatchLineItem(item models.LineItem, products []models.CatalogProduct) models.LineItemResult {
	itemText := normalizeSpace(strings.ToLower(item.Text))
	itemSpecs := ExtractItemSpecs(item.Text)

	var matches []models.SpecMatch
	for _, p := range products {
		dims := productDimensions(p)
		matched := 0
		comparison := make([]models.SpecComparison, 0, lineItemDimensions)
		for _, dim := range dimensionOrder {
			val := dims[dim]
			norm := normalizeSpace(strings.ToLower(val))
			ok := norm != "" && strings.Contains(itemText, norm)
			if ok {
				matched++
			}
			comparison = append(comparison, models.SpecComparison{
				Dimension:    dim,
				Requirement:  itemSpecs[dim],
				ProductValue: val,
				Matched:      ok,
			})
		}

		pct := round2(float64(matched) / lineItemDimensions * 100)
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
			Comparison:   comparison,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SpecMatchPct > matches[j].SpecMatchPct
	})
	if len(matches) > topMatchLimit {
		matches = matches[:topMatchLimit]
	}

	result := models.LineItemResult{
		Item:       item,
		Specs:      itemSpecs,
		TopMatches: matches,
	}
	if len(matches) > 0 {
		selected := matches[0]
		result.Selected = &selected
	}
	return result
}

// MatchLineItems runs MatchLineItem over every item, preserving input
// order. An empty input yields an empty (non-nil) slice so downstream
// stages can branch on emptiness.
func MatchLineItems(items []models.LineItem, products []models.CatalogProduct) []models.LineItemResult {
	results := make([]models.LineItemResult, 0, len(items))
	for _, item := range items {
		results = append(results, MatchLineItem(item, products))
	}
	return results
}

var (
	coresRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:core|c\s*x)`)
	standardsRe = regexp.MustCompile(`\b(?:is|iec|ieee|iso|en|bs)\s*[-:]?\s*\d+(?:\s*part\s*\d+)?`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ExtractItemSpecs pulls the recognizable spec tokens out of a line
// item's text for display in the report. Dimensions with no extractable
// signal are omitted from the map rather than reported as empty.
func ExtractItemSpecs(text string) map[string]string {
	lower := NormalizeText(text)
	specs := make(map[string]string)

	if v := ExtractVoltageToken(strings.ToLower(text)); v != "" {
		specs["voltage"] = v
	}
	switch {
	case hasAny(lower, "copper", "cu "):
		specs["material"] = "Copper"
	case hasAny(lower, "aluminium", "aluminum", "al "):
		specs["material"] = "Aluminium"
	}
	switch {
	case hasAny(lower, "xlpe", "cross linked"):
		specs["insulation"] = "XLPE"
	case hasAny(lower, "xlpo"):
		specs["insulation"] = "XLPO"
	case hasAny(lower, "pvc"):
		specs["insulation"] = "PVC"
	}
	if m := coresRe.FindStringSubmatch(lower); m != nil {
		specs["cores"] = m[1] + " core"
	}
	switch {
	case hasAny(lower, "unarmoured", "unarmored"):
		specs["armoring"] = "Unarmoured"
	case hasAny(lower, "armoured", "armored", "steel wire", "steel strip"):
		specs["armoring"] = "Armoured"
	}
	if stds := standardsRe.FindAllString(strings.ToLower(text), -1); len(stds) > 0 {
		cleaned := make([]string, 0, len(stds))
		for _, s := range stds {
			cleaned = append(cleaned, strings.ToUpper(normalizeSpace(s)))
		}
		specs["standards"] = strings.Join(cleaned, ", ")
	}
	return specs
}
