package models

import "github.com/google/uuid"

// TestCharge is one resolved test against the services price table.
type TestCharge struct {
	TestCode      string  `json:"test_code"`
	TestName      string  `json:"test_name"`
	PriceINR      float64 `json:"price_inr"`
	DurationHours float64 `json:"duration_hours"`
}

// PricingRow is the cost breakdown for one line item. Line total is
// always material cost + test cost, each rounded to 2 decimals before
// summation.
type PricingRow struct {
	LineItemID      uuid.UUID    `json:"line_item_id"`
	LineItem        string       `json:"line_item"`
	SKU             string       `json:"sku"`
	ProductName     string       `json:"product_name,omitempty"`
	UnitPriceINR    float64      `json:"unit_price_inr"`
	MOQMeters       int          `json:"moq_meters"`
	MaterialCostINR float64      `json:"material_cost_inr"`
	ApplicableTests []TestCharge `json:"applicable_tests"`
	TestCostINR     float64      `json:"test_cost_inr"`
	LineTotalINR    float64      `json:"line_total_inr"`
	Note            string       `json:"note,omitempty"`
}

// ConsolidatedPricing is the pricing engine's full output. The totals
// here are authoritative; the consolidator copies them into the final
// report without recomputing.
type ConsolidatedPricing struct {
	Rows                 []PricingRow `json:"line_item_pricing"`
	TotalMaterialCostINR float64      `json:"total_material_cost"`
	TotalTestCostINR     float64      `json:"total_test_cost"`
	GrandTotalINR        float64      `json:"grand_total"`
}
