package match

import (
	"testing"

	"github.com/rakesh/rfp-evaluator/internal/models"
)

func testProducts() []models.CatalogProduct {
	return []models.CatalogProduct{
		{
			ID: "HT-AL", Name: "11 kV XLPE Aluminium", Category: "HT Power Cable",
			VoltageRating: "11 kV", ConductorMaterial: "Aluminium", InsulationType: "XLPE",
			CoreCount: "3 Core", Armoring: "Galvanised Steel Wire", Standards: "IS 7098",
			BISCertified: true, UnitPriceINR: 1450, MinOrderQtyMeters: 500,
		},
		{
			ID: "LT-CU", Name: "1.1 kV PVC Copper", Category: "LT Power Cable",
			VoltageRating: "1.1 kV", ConductorMaterial: "Copper", InsulationType: "PVC",
			CoreCount: "4 Core", Armoring: "Galvanised Steel Strip", Standards: "IS 1554",
			BISCertified: true, UnitPriceINR: 620, MinOrderQtyMeters: 250,
		},
		{
			ID: "INST", Name: "Instrumentation Cable", Category: "Instrumentation Cable",
			VoltageRating: "0.6 kV", ConductorMaterial: "Copper", InsulationType: "PVC",
			CoreCount: "2 Pair", Armoring: "Unarmoured", Standards: "BS 5308",
			BISCertified: false, UnitPriceINR: 145, MinOrderQtyMeters: 100,
		},
	}
}

func TestQuickMatchRanksByVoltageAndKeywords(t *testing.T) {
	text := "Supply of 11 kV XLPE insulated aluminium power cable for substation feeders."
	matches := QuickMatch(text, testProducts())
	if len(matches) == 0 {
		t.Fatal("expected matches, got none")
	}
	if matches[0].ProductID != "HT-AL" {
		t.Errorf("top match = %s, want HT-AL", matches[0].ProductID)
	}
	if matches[0].SpecMatchPct != 100 {
		t.Errorf("top match pct = %v, want 100", matches[0].SpecMatchPct)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].SpecMatchPct > matches[i-1].SpecMatchPct {
			t.Fatalf("matches not sorted descending at index %d", i)
		}
	}
}

func TestQuickMatchNoSignal(t *testing.T) {
	matches := QuickMatch("Construction of approach road and boundary fencing.", testProducts())
	if len(matches) != 0 {
		t.Errorf("expected no matches for signal-free text, got %d", len(matches))
	}
}

func TestQuickMatchCopperPreferredOverAluminium(t *testing.T) {
	// Copper keyword present: the aluminium branch must not be evaluated.
	matches := QuickMatch("copper conductor pvc insulated cable", testProducts())
	for _, m := range matches {
		if m.ProductID == "HT-AL" && m.SpecMatchPct == 100 {
			t.Error("aluminium product scored full marks on a copper requirement")
		}
	}
	if len(matches) == 0 {
		t.Fatal("expected copper products to match")
	}
	if matches[0].ProductID != "LT-CU" {
		t.Errorf("top match = %s, want LT-CU", matches[0].ProductID)
	}
}

func TestQuickMatchCarriesPricingFallbacks(t *testing.T) {
	matches := QuickMatch("11 kv aluminium xlpe cable", testProducts())
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	top := matches[0]
	if top.UnitPriceINR != 1450 || top.MOQMeters != 500 {
		t.Errorf("fallback pricing = (%v, %v), want (1450, 500)", top.UnitPriceINR, top.MOQMeters)
	}
}

func TestExtractVoltageToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"supply of 11 kv cable", "11kv"},
		{"1.1kV LT cable", "1.1kv"},
		{"415 v distribution", "415v"},
		{"no voltage here", ""},
	}
	for _, c := range cases {
		if got := ExtractVoltageToken(c.in); got != c.want {
			t.Errorf("ExtractVoltageToken(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
