package pipeline

import (
	"github.com/google/uuid"

	"github.com/rakesh/rfp-evaluator/internal/models"
)

const reportTopRecommendations = 3

// Consolidate joins matcher output with pricing rows by line-item ID
// and attaches the viability verdict. Items without a pricing row keep
// zero cost fields so unmatched requirements stay visible in the
// report. Aggregate totals are copied from the pricing engine, never
// recomputed here.
func Consolidate(rfp models.RFP, score models.ViabilityScore, results []models.LineItemResult, priced models.ConsolidatedPricing) models.FinalReport {
	pricingByID := make(map[uuid.UUID]models.PricingRow, len(priced.Rows))
	for _, row := range priced.Rows {
		pricingByID[row.LineItemID] = row
	}

	lineItems := make([]models.ReportLineItem, 0, len(results))
	for _, r := range results {
		row := pricingByID[r.Item.ID]

		top := r.TopMatches
		if len(top) > reportTopRecommendations {
			top = top[:reportTopRecommendations]
		}
		selectedSKU := ""
		if r.Selected != nil {
			selectedSKU = r.Selected.ProductID
		}
		tests := row.ApplicableTests
		if tests == nil {
			tests = []models.TestCharge{}
		}

		lineItems = append(lineItems, models.ReportLineItem{
			LineItemID:          r.Item.ID,
			LineItem:            r.Item.Text,
			RFPSpecs:            r.Specs,
			Top3Recommendations: top,
			SelectedSKU:         selectedSKU,
			UnitPriceINR:        row.UnitPriceINR,
			MOQMeters:           row.MOQMeters,
			MaterialCostINR:     row.MaterialCostINR,
			ApplicableTests:     tests,
			TestCostINR:         row.TestCostINR,
			LineTotalINR:        row.LineTotalINR,
		})
	}

	return models.FinalReport{
		ProjectName: rfp.ProjectName,
		IssuedBy:    rfp.IssuedBy,
		Deadline:    deadlineString(rfp),
		BidViability: models.BidViability{
			Score:                 score.FinalScore,
			Grade:                 score.Grade,
			Recommendation:        score.Recommendation,
			ComponentScores:       score.Components,
			WeightedContributions: score.WeightedContributions,
		},
		LineItems: lineItems,
		Summary: models.CostSummary{
			TotalMaterialCostINR: priced.TotalMaterialCostINR,
			TotalTestCostINR:     priced.TotalTestCostINR,
			GrandTotalINR:        priced.GrandTotalINR,
		},
	}
}
