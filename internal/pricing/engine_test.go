package pricing

import (
	"math"
	"strings"
	"testing"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/models"
)

func testCatalog() *catalog.Set {
	return catalog.New(
		[]models.CatalogProduct{
			{ID: "P1", Name: "HT Cable", VoltageRating: "11 kV", UnitPriceINR: 120, MinOrderQtyMeters: 500},
			{ID: "P2", Name: "LT Cable", VoltageRating: "1.1 kV", UnitPriceINR: 620, MinOrderQtyMeters: 250},
		},
		[]models.TestService{
			{Code: "HVWT-11KV", Name: "HV Withstand 11kV", PriceINR: 25000, DurationHours: 4},
			{Code: "IRT-10M", Name: "Insulation Resistance", PriceINR: 12000, DurationHours: 1},
			{Code: "RT-01", Name: "Routine Test", PriceINR: 8000, DurationHours: 1},
			{Code: "ET-01", Name: "Electrical Test", PriceINR: 9500, DurationHours: 1.5},
			{Code: "DOC-01", Name: "Documentation", PriceINR: 10000, DurationHours: 4},
		},
	)
}

func matchedResult(text, productID string) models.LineItemResult {
	item := models.NewLineItem(text)
	sel := models.SpecMatch{ProductID: productID, SpecMatchPct: 100}
	return models.LineItemResult{Item: item, TopMatches: []models.SpecMatch{sel}, Selected: &sel}
}

func TestPriceLineItemsMaterialCost(t *testing.T) {
	engine := NewEngine(testCatalog())
	results := []models.LineItemResult{matchedResult("11 kv cable", "P1")}

	pricing := engine.PriceLineItems(results, "")
	if len(pricing.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(pricing.Rows))
	}
	row := pricing.Rows[0]
	if row.MaterialCostINR != 60000 {
		t.Errorf("material cost = %v, want 60000 (120 x 500)", row.MaterialCostINR)
	}
	if row.SKU != "P1" || row.MOQMeters != 500 || row.UnitPriceINR != 120 {
		t.Errorf("row carries wrong catalog values: %+v", row)
	}
}

func TestPriceLineItemsLineTotalLaw(t *testing.T) {
	engine := NewEngine(testCatalog())
	results := []models.LineItemResult{
		matchedResult("11 kv cable", "P1"),
		matchedResult("1.1 kv cable", "P2"),
	}

	pricing := engine.PriceLineItems(results, "routine tests and insulation resistance required")

	var wantMaterial, wantTest float64
	for _, row := range pricing.Rows {
		if got := round2(row.MaterialCostINR + row.TestCostINR); got != row.LineTotalINR {
			t.Errorf("row %s: line total %v != material %v + test %v",
				row.SKU, row.LineTotalINR, row.MaterialCostINR, row.TestCostINR)
		}
		var chargeSum float64
		for _, c := range row.ApplicableTests {
			chargeSum += c.PriceINR
		}
		if round2(chargeSum) != row.TestCostINR {
			t.Errorf("row %s: test cost %v != charge sum %v", row.SKU, row.TestCostINR, chargeSum)
		}
		wantMaterial += row.MaterialCostINR
		wantTest += row.TestCostINR
	}
	if pricing.TotalMaterialCostINR != round2(wantMaterial) {
		t.Errorf("total material %v != row sum %v", pricing.TotalMaterialCostINR, wantMaterial)
	}
	if pricing.TotalTestCostINR != round2(wantTest) {
		t.Errorf("total test %v != row sum %v", pricing.TotalTestCostINR, wantTest)
	}
	if math.Abs(pricing.GrandTotalINR-(pricing.TotalMaterialCostINR+pricing.TotalTestCostINR)) > 0.01 {
		t.Errorf("grand total %v != material %v + test %v",
			pricing.GrandTotalINR, pricing.TotalMaterialCostINR, pricing.TotalTestCostINR)
	}
}

func TestPriceLineItemsVoltageFilterUsesProductClass(t *testing.T) {
	engine := NewEngine(testCatalog())
	results := []models.LineItemResult{matchedResult("11 kv cable", "P1")}

	pricing := engine.PriceLineItems(results, "high voltage withstand test required")
	codes := make(map[string]bool)
	for _, c := range pricing.Rows[0].ApplicableTests {
		codes[c.TestCode] = true
	}
	if !codes["HVWT-11KV"] {
		t.Errorf("expected HVWT-11KV for an 11 kV product, got %v", codes)
	}
	if codes["HVWT-1.1KV"] || codes["HVWT-3.5KV"] {
		t.Errorf("lower-voltage HV tests not filtered out: %v", codes)
	}
}

func TestPriceLineItemsUnmatchedItemSurfaced(t *testing.T) {
	engine := NewEngine(testCatalog())
	item := models.NewLineItem("unmatched line item")
	results := []models.LineItemResult{{Item: item}}

	pricing := engine.PriceLineItems(results, "routine tests")
	if len(pricing.Rows) != 1 {
		t.Fatalf("got %d rows, want the unmatched item surfaced", len(pricing.Rows))
	}
	row := pricing.Rows[0]
	if row.SKU != "" || row.LineTotalINR != 0 || row.MaterialCostINR != 0 {
		t.Errorf("unmatched row should be zero-cost: %+v", row)
	}
	if row.Note == "" {
		t.Error("unmatched row missing explanatory note")
	}
	if row.LineItemID != item.ID {
		t.Error("unmatched row lost its line item id")
	}
	if pricing.GrandTotalINR != 0 {
		t.Errorf("grand total = %v, want 0", pricing.GrandTotalINR)
	}
}

func TestPriceLineItemsCatalogMissFallsBackToMatchValues(t *testing.T) {
	engine := NewEngine(testCatalog())
	item := models.NewLineItem("special cable")
	sel := models.SpecMatch{ProductID: "GONE", SpecMatchPct: 80, UnitPriceINR: 300, MOQMeters: 200}
	results := []models.LineItemResult{{Item: item, TopMatches: []models.SpecMatch{sel}, Selected: &sel}}

	pricing := engine.PriceLineItems(results, "")
	row := pricing.Rows[0]
	if row.UnitPriceINR != 300 || row.MOQMeters != 200 {
		t.Errorf("fallback values not used: %+v", row)
	}
	if row.MaterialCostINR != 60000 {
		t.Errorf("material cost = %v, want 60000", row.MaterialCostINR)
	}
}

func TestResolveTestChargesSynthesizesUnknownCodes(t *testing.T) {
	engine := NewEngine(testCatalog())
	charges := engine.ResolveTestCharges([]string{"RT-01", "XYZ-99"})
	if len(charges) != 2 {
		t.Fatalf("got %d charges, want 2", len(charges))
	}
	if charges[0].PriceINR != 8000 {
		t.Errorf("known code price = %v, want 8000", charges[0].PriceINR)
	}
	synth := charges[1]
	if synth.PriceINR != 10000 || synth.DurationHours != 2 {
		t.Errorf("synthesized charge = %+v, want estimated 10000 / 2h", synth)
	}
	if !strings.Contains(synth.TestName, "estimated") {
		t.Errorf("synthesized charge name %q should say estimated", synth.TestName)
	}
}
