package match

import (
	"testing"

	"github.com/rakesh/rfp-evaluator/internal/models"
)

func TestMatchLineItemFullMatch(t *testing.T) {
	item := models.NewLineItem(
		"11 kV aluminium XLPE 3 core cable, galvanised steel wire armoured, IS 7098 compliant")
	products := []models.CatalogProduct{{
		ID: "P1", Name: "HT Cable",
		VoltageRating: "11 kV", ConductorMaterial: "Aluminium", InsulationType: "XLPE",
		CoreCount: "3 Core", Armoring: "Galvanised Steel Wire", Standards: "IS 7098",
		UnitPriceINR: 1450, MinOrderQtyMeters: 500,
	}}

	result := MatchLineItem(item, products)
	if len(result.TopMatches) != 1 {
		t.Fatalf("got %d matches, want 1", len(result.TopMatches))
	}
	if result.TopMatches[0].SpecMatchPct != 100 {
		t.Errorf("pct = %v, want 100 for 6/6 dimensions", result.TopMatches[0].SpecMatchPct)
	}
	if result.Selected == nil {
		t.Fatal("expected a selected match")
	}
	if result.Selected.ProductID != result.TopMatches[0].ProductID {
		t.Error("selected match is not the head of the top list")
	}
}

func TestMatchLineItemZeroDimensionsExcluded(t *testing.T) {
	item := models.NewLineItem("office furniture and stationery supplies")
	products := []models.CatalogProduct{{
		ID: "P1", VoltageRating: "11 kV", ConductorMaterial: "Copper",
		InsulationType: "XLPE", CoreCount: "3 Core",
		Armoring: "Galvanised Steel Wire", Standards: "IS 7098",
	}}

	result := MatchLineItem(item, products)
	if len(result.TopMatches) != 0 {
		t.Errorf("got %d matches, want 0 for a product matching no dimension", len(result.TopMatches))
	}
	if result.Selected != nil {
		t.Error("expected nil selection when nothing matched")
	}
}

func TestMatchLineItemPartialMatchPercent(t *testing.T) {
	// Only voltage and insulation appear in the text: 2/6 = 33.33.
	item := models.NewLineItem("supply 11 kv xlpe cable drums")
	products := []models.CatalogProduct{{
		ID: "P1", VoltageRating: "11 kV", ConductorMaterial: "Copper",
		InsulationType: "XLPE", CoreCount: "3 Core",
		Armoring: "Galvanised Steel Wire", Standards: "IS 7098",
	}}

	result := MatchLineItem(item, products)
	if len(result.TopMatches) != 1 {
		t.Fatalf("got %d matches, want 1", len(result.TopMatches))
	}
	if got := result.TopMatches[0].SpecMatchPct; got != 33.33 {
		t.Errorf("pct = %v, want 33.33", got)
	}
}

func TestMatchLineItemTopFiveCap(t *testing.T) {
	item := models.NewLineItem("1.1 kv copper pvc control cable")
	var products []models.CatalogProduct
	for i := 0; i < 8; i++ {
		products = append(products, models.CatalogProduct{
			ID:            string(rune('A' + i)),
			VoltageRating: "1.1 kV", ConductorMaterial: "Copper", InsulationType: "PVC",
		})
	}

	result := MatchLineItem(item, products)
	if len(result.TopMatches) != 5 {
		t.Errorf("got %d matches, want cap of 5", len(result.TopMatches))
	}
	// Ties broken by catalog iteration order.
	if result.TopMatches[0].ProductID != "A" {
		t.Errorf("tie-break violated: top = %s, want A", result.TopMatches[0].ProductID)
	}
}

func TestMatchLineItemsPreservesOrderAndIDs(t *testing.T) {
	items := []models.LineItem{
		models.NewLineItem("11 kv xlpe cable"),
		models.NewLineItem("1.1 kv pvc cable"),
	}
	results := MatchLineItems(items, testProducts())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i := range items {
		if results[i].Item.ID != items[i].ID {
			t.Errorf("result %d lost its line item id", i)
		}
	}
}

func TestMatchLineItemsEmptyInput(t *testing.T) {
	results := MatchLineItems(nil, testProducts())
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", results)
	}
}

func TestExtractItemSpecs(t *testing.T) {
	specs := ExtractItemSpecs("11 kV 3 core aluminium XLPE armoured cable per IS 7098")
	if specs["voltage"] != "11kv" {
		t.Errorf("voltage = %q, want 11kv", specs["voltage"])
	}
	if specs["material"] != "Aluminium" {
		t.Errorf("material = %q, want Aluminium", specs["material"])
	}
	if specs["insulation"] != "XLPE" {
		t.Errorf("insulation = %q, want XLPE", specs["insulation"])
	}
	if specs["armoring"] != "Armoured" {
		t.Errorf("armoring = %q, want Armoured", specs["armoring"])
	}
	if _, ok := specs["standards"]; !ok {
		t.Error("expected a standards entry for IS 7098")
	}

	empty := ExtractItemSpecs("no cable specifications at all")
	if len(empty) != 0 {
		t.Errorf("expected no extracted specs, got %v", empty)
	}
}
