package models

import (
	"time"

	"github.com/google/uuid"
)

// BidViability is the report-facing shape of a ViabilityScore.
type BidViability struct {
	Score                 float64         `json:"score"`
	Grade                 string          `json:"grade"`
	Recommendation        string          `json:"recommendation"`
	ComponentScores       ComponentScores `json:"component_scores"`
	WeightedContributions ComponentScores `json:"weighted_contributions"`
}

// ReportLineItem is one merged row of the final report: matcher output
// joined with its pricing row. When no pricing row exists for an item
// the cost fields are zero and the row is still emitted, so unmatched
// items are surfaced rather than dropped.
type ReportLineItem struct {
	LineItemID          uuid.UUID         `json:"line_item_id"`
	LineItem            string            `json:"line_item"`
	RFPSpecs            map[string]string `json:"rfp_specs"`
	Top3Recommendations []SpecMatch       `json:"top_3_recommendations"`
	SelectedSKU         string            `json:"selected_sku"`
	UnitPriceINR        float64           `json:"unit_price_inr"`
	MOQMeters           int               `json:"moq_meters"`
	MaterialCostINR     float64           `json:"material_cost_inr"`
	ApplicableTests     []TestCharge      `json:"applicable_tests"`
	TestCostINR         float64           `json:"test_cost_inr"`
	LineTotalINR        float64           `json:"line_total_inr"`
}

// CostSummary carries the aggregate totals computed by the pricing
// engine. The invariant total_material + total_test == grand_total holds
// up to 2-decimal rounding of each addend.
type CostSummary struct {
	TotalMaterialCostINR float64 `json:"total_material_cost_inr"`
	TotalTestCostINR     float64 `json:"total_test_cost_inr"`
	GrandTotalINR        float64 `json:"grand_total_inr"`
}

// FinalReport is the consolidated output of one pipeline run.
type FinalReport struct {
	ID           uuid.UUID        `json:"id"`
	ProjectName  string           `json:"project_name"`
	IssuedBy     string           `json:"issued_by"`
	Deadline     string           `json:"deadline"`
	BidViability BidViability     `json:"bid_viability"`
	LineItems    []ReportLineItem `json:"line_items"`
	Summary      CostSummary      `json:"summary"`
	CreatedAt    time.Time        `json:"created_at"`
}
