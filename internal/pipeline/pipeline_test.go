package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/models"
)

func testCatalog() *catalog.Set {
	return catalog.New(
		[]models.CatalogProduct{
			{
				ID: "HT-AL", Name: "11 kV HT XLPE Aluminium", Category: "HT Power Cable",
				VoltageRating: "11 kV", ConductorMaterial: "Aluminium", InsulationType: "XLPE",
				CoreCount: "3 Core", Armoring: "Galvanised Steel Wire", Standards: "IS 7098",
				BISCertified: true, UnitPriceINR: 1450, MinOrderQtyMeters: 500,
				LeadTimeDays: 45, WarrantyYears: 5,
			},
			{
				ID: "LT-CU", Name: "1.1 kV LT PVC Copper", Category: "LT Power Cable",
				VoltageRating: "1.1 kV", ConductorMaterial: "Copper", InsulationType: "PVC",
				CoreCount: "4 Core", Armoring: "Galvanised Steel Strip", Standards: "IS 1554",
				BISCertified: true, UnitPriceINR: 620, MinOrderQtyMeters: 250,
				LeadTimeDays: 21, WarrantyYears: 3,
			},
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

func deadlinePtr(t time.Time) *time.Time { return &t }

func cableRFP(name string, deadline *time.Time) models.RFP {
	return models.RFP{
		ProjectName:        name,
		IssuedBy:           "State Transmission Utility",
		SubmissionDeadline: deadline,
		ScopeOfSupply: "1. Supply of 11 kV aluminium XLPE 3 core cable, galvanised steel wire armoured, IS 7098\n" +
			"2. Supply of 1.1 kV copper PVC 4 core cable, galvanised steel strip armoured, IS 1554",
		TechnicalSpecifications: "Cables shall be 11 kV grade aluminium conductor XLPE insulated.",
		TestingRequirements:     "High voltage withstand test, insulation resistance test and routine tests required.",
	}
}

func TestFilterUpcoming(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rfps := []models.RFP{
		cableRFP("in window", deadlinePtr(now.AddDate(0, 0, 30))),
		cableRFP("too late", deadlinePtr(now.AddDate(0, 0, 120))),
		cableRFP("already past", deadlinePtr(now.AddDate(0, 0, -1))),
		cableRFP("no deadline", nil),
	}

	got := FilterUpcoming(rfps, now)
	if len(got) != 1 {
		t.Fatalf("got %d upcoming, want 1", len(got))
	}
	if got[0].ProjectName != "in window" {
		t.Errorf("kept %q, want the in-window opportunity", got[0].ProjectName)
	}
}

func TestScoreCandidatesAndSelectBest(t *testing.T) {
	p := New(testCatalog())
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	strong := cableRFP("cable tender", deadlinePtr(now.AddDate(0, 0, 80)))
	weak := models.RFP{
		ProjectName:        "civil works tender",
		SubmissionDeadline: deadlinePtr(now.AddDate(0, 0, 40)),
		ScopeOfSupply:      "Construction of approach road and boundary fencing.",
	}

	scored := p.ScoreCandidates([]models.RFP{weak, strong}, now)
	if len(scored) != 2 {
		t.Fatalf("got %d scored, want 2", len(scored))
	}
	if scored[0].Score.FinalScore != 0 {
		t.Errorf("no-signal candidate score = %v, want 0", scored[0].Score.FinalScore)
	}
	if scored[0].Score.Grade != "D (Poor)" {
		t.Errorf("no-signal grade = %q, want D (Poor)", scored[0].Score.Grade)
	}

	best, ok := SelectBest(scored)
	if !ok {
		t.Fatal("expected a selection")
	}
	if best.RFP.ProjectName != "cable tender" {
		t.Errorf("selected %q, want the cable tender", best.RFP.ProjectName)
	}
}

func TestSelectBestEmpty(t *testing.T) {
	if _, ok := SelectBest(nil); ok {
		t.Error("expected no selection from empty input")
	}
}

func TestSelectByDeadline(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rfps := []models.RFP{
		cableRFP("later", deadlinePtr(now.AddDate(0, 0, 60))),
		cableRFP("urgent", deadlinePtr(now.AddDate(0, 0, 10))),
		cableRFP("undated", nil),
	}
	best, ok := SelectByDeadline(rfps)
	if !ok {
		t.Fatal("expected a selection")
	}
	if best.ProjectName != "urgent" {
		t.Errorf("selected %q, want the most urgent", best.ProjectName)
	}

	if _, ok := SelectByDeadline([]models.RFP{cableRFP("undated", nil)}); ok {
		t.Error("expected no selection when no candidate has a deadline")
	}
}

func TestDeadlineSensitivitySelection(t *testing.T) {
	p := New(testCatalog())
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Same content, different deadlines: the tighter one must lose.
	relaxed := cableRFP("relaxed", deadlinePtr(now.AddDate(0, 0, 85)))
	tight := cableRFP("tight", deadlinePtr(now.AddDate(0, 0, 20)))

	scored := p.ScoreCandidates([]models.RFP{tight, relaxed}, now)
	best, ok := SelectBest(scored)
	if !ok {
		t.Fatal("expected a selection")
	}
	if best.RFP.ProjectName != "relaxed" {
		t.Errorf("selected %q, want the relaxed-deadline opportunity", best.RFP.ProjectName)
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	p := New(testCatalog())
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rfp := cableRFP("cable tender", deadlinePtr(now.AddDate(0, 0, 80)))

	report, err := p.Analyze(context.Background(), rfp, nil, now)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.ProjectName != "cable tender" {
		t.Errorf("project name = %q", report.ProjectName)
	}
	if report.Deadline == "" {
		t.Error("expected a formatted deadline")
	}
	if report.BidViability.Score <= 0 {
		t.Errorf("viability score = %v, want > 0 for a cable tender", report.BidViability.Score)
	}
	if len(report.LineItems) != 2 {
		t.Fatalf("got %d line items, want 2", len(report.LineItems))
	}

	var material, test float64
	for _, li := range report.LineItems {
		if li.SelectedSKU == "" {
			t.Errorf("line item %q has no selected SKU", li.LineItem)
		}
		if len(li.Top3Recommendations) > 3 {
			t.Errorf("line item %q carries %d recommendations, cap is 3",
				li.LineItem, len(li.Top3Recommendations))
		}
		material += li.MaterialCostINR
		test += li.TestCostINR
	}
	if report.Summary.TotalMaterialCostINR != material {
		t.Errorf("summary material %v != row sum %v", report.Summary.TotalMaterialCostINR, material)
	}
	if report.Summary.TotalTestCostINR != test {
		t.Errorf("summary test %v != row sum %v", report.Summary.TotalTestCostINR, test)
	}
	if report.Summary.GrandTotalINR != report.Summary.TotalMaterialCostINR+report.Summary.TotalTestCostINR {
		t.Error("grand total differs from material + test totals")
	}
}

func TestAnalyzeEmptyCatalog(t *testing.T) {
	p := New(catalog.New(nil, nil))
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := p.Analyze(context.Background(), cableRFP("x", nil), nil, now); err == nil {
		t.Error("expected an error for an empty catalog")
	}
}

type fakeSplitter struct {
	items []string
	err   error
}

func (f fakeSplitter) SplitLineItems(ctx context.Context, scope string) ([]string, error) {
	return f.items, f.err
}

func TestAnalyzeUsesSplitterWhenAvailable(t *testing.T) {
	p := New(testCatalog())
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rfp := cableRFP("cable tender", deadlinePtr(now.AddDate(0, 0, 80)))

	splitter := fakeSplitter{items: []string{"11 kv aluminium xlpe cable for feeders"}}
	report, err := p.Analyze(context.Background(), rfp, splitter, now)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(report.LineItems) != 1 {
		t.Errorf("got %d line items, want the splitter's single item", len(report.LineItems))
	}
}
