package pricing

import (
	"fmt"
	"math"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/models"
)

const (
	estimatedTestPrice    = 10000.0
	estimatedTestDuration = 2.0
	fallbackMOQ           = 100
)

// Engine prices line items against the read-only catalog Set. It never
// fails on missing reference rows; unknown products fall back to the
// values the matcher carried, unknown test codes are synthesized with
// an estimated price.
type Engine struct {
	catalog *catalog.Set
}

func NewEngine(set *catalog.Set) *Engine {
	return &Engine{catalog: set}
}

// ResolveTestCharges looks up every code against the test services
// table. A code missing from the table is synthesized rather than
// dropped, so the line total still accounts for it.
func (e *Engine) ResolveTestCharges(codes []string) []models.TestCharge {
	charges := make([]models.TestCharge, 0, len(codes))
	for _, code := range codes {
		if ts, ok := e.catalog.TestService(code); ok {
			charges = append(charges, models.TestCharge{
				TestCode:      ts.Code,
				TestName:      ts.Name,
				PriceINR:      ts.PriceINR,
				DurationHours: ts.DurationHours,
			})
			continue
		}
		charges = append(charges, models.TestCharge{
			TestCode:      code,
			TestName:      fmt.Sprintf("Test %s (estimated)", code),
			PriceINR:      estimatedTestPrice,
			DurationHours: estimatedTestDuration,
		})
	}
	return charges
}

// PriceLineItems builds the full cost breakdown for the matched line
// items. Items with no selected product produce a zero-cost row with an
// explanatory note instead of being dropped. Material, test, and line
// totals are each rounded to 2 decimals before summation so the
// aggregation law holds exactly.
func (e *Engine) PriceLineItems(results []models.LineItemResult, testingRequirements string) models.ConsolidatedPricing {
	pricing := models.ConsolidatedPricing{Rows: make([]models.PricingRow, 0, len(results))}

	var totalMaterial, totalTest float64
	for _, r := range results {
		if r.Selected == nil {
			pricing.Rows = append(pricing.Rows, models.PricingRow{
				LineItemID:      r.Item.ID,
				LineItem:        r.Item.Text,
				ApplicableTests: []models.TestCharge{},
				Note:            "No matching product found",
			})
			continue
		}

		unitPrice := r.Selected.UnitPriceINR
		moq := r.Selected.MOQMeters
		if moq == 0 {
			moq = fallbackMOQ
		}
		voltage := ""
		productName := r.Selected.ProductName
		if p, ok := e.catalog.Product(r.Selected.ProductID); ok {
			unitPrice = p.UnitPriceINR
			moq = p.MinOrderQtyMeters
			voltage = p.VoltageRating
			productName = p.Name
		}

		materialCost := round2(unitPrice * float64(moq))

		codes := ExtractRequiredTests(testingRequirements, voltage)
		charges := e.ResolveTestCharges(codes)
		var testCost float64
		for _, c := range charges {
			testCost += c.PriceINR
		}
		testCost = round2(testCost)
		lineTotal := round2(materialCost + testCost)

		totalMaterial += materialCost
		totalTest += testCost

		pricing.Rows = append(pricing.Rows, models.PricingRow{
			LineItemID:      r.Item.ID,
			LineItem:        r.Item.Text,
			SKU:             r.Selected.ProductID,
			ProductName:     productName,
			UnitPriceINR:    unitPrice,
			MOQMeters:       moq,
			MaterialCostINR: materialCost,
			ApplicableTests: charges,
			TestCostINR:     testCost,
			LineTotalINR:    lineTotal,
		})
	}

	pricing.TotalMaterialCostINR = round2(totalMaterial)
	pricing.TotalTestCostINR = round2(totalTest)
	pricing.GrandTotalINR = round2(totalMaterial + totalTest)
	return pricing
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
