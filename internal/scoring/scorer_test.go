package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/models"
)

func testCatalog() *catalog.Set {
	return catalog.New([]models.CatalogProduct{
		{
			ID: "P1", Category: "HT Power Cable", VoltageRating: "11 kV",
			BISCertified: true, Standards: "IS 7098, IEC 60502",
			UnitPriceINR: 1450, MinOrderQtyMeters: 500,
			LeadTimeDays: 45, WarrantyYears: 5,
		},
		{
			ID: "P2", Category: "LT Power Cable", VoltageRating: "1.1 kV",
			BISCertified: true, Standards: "IS 7098",
			UnitPriceINR: 620, MinOrderQtyMeters: 250,
			LeadTimeDays: 21, WarrantyYears: 3,
		},
		{
			ID: "P3", Category: "Control Cable", VoltageRating: "1.1 kV",
			BISCertified: false, Standards: "",
			UnitPriceINR: 265, MinOrderQtyMeters: 100,
			LeadTimeDays: 14, WarrantyYears: 2,
		},
	}, nil)
}

func testMatches() []models.SpecMatch {
	return []models.SpecMatch{
		{ProductID: "P1", SpecMatchPct: 100, Category: "HT Power Cable"},
		{ProductID: "P2", SpecMatchPct: 75, Category: "LT Power Cable"},
		{ProductID: "P3", SpecMatchPct: 50, Category: "Control Cable"},
	}
}

func TestScoreComponentsWithinBounds(t *testing.T) {
	scorer := NewScorer(testCatalog())
	matches := testMatches()
	est := scorer.EstimateBidPrice(matches)
	deadline := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	result := scorer.Score(matches, est, &deadline, now)

	components := []float64{
		result.Components.TechnicalMatch,
		result.Components.PriceCompetitiveness,
		result.Components.DeliveryCapability,
		result.Components.Compliance,
		result.Components.RiskAssessment,
		result.FinalScore,
	}
	for i, c := range components {
		if c < 0 || c > 100 {
			t.Errorf("component %d out of [0,100]: %v", i, c)
		}
	}
}

func TestScoreWeightedSumInvariant(t *testing.T) {
	scorer := NewScorer(testCatalog())
	matches := testMatches()
	est := scorer.EstimateBidPrice(matches)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	result := scorer.Score(matches, est, nil, now)

	want := result.Components.TechnicalMatch*WeightTechnicalMatch +
		result.Components.PriceCompetitiveness*WeightPriceCompetitiveness +
		result.Components.DeliveryCapability*WeightDeliveryCapability +
		result.Components.Compliance*WeightCompliance +
		result.Components.RiskAssessment*WeightRiskAssessment
	if math.Abs(result.FinalScore-want) > 0.01 {
		t.Errorf("final score %v differs from weighted sum %v by more than 0.01", result.FinalScore, want)
	}

	contribSum := result.WeightedContributions.TechnicalMatch +
		result.WeightedContributions.PriceCompetitiveness +
		result.WeightedContributions.DeliveryCapability +
		result.WeightedContributions.Compliance +
		result.WeightedContributions.RiskAssessment
	if math.Abs(result.FinalScore-contribSum) > 0.05 {
		t.Errorf("final score %v differs from contribution sum %v", result.FinalScore, contribSum)
	}
}

func TestScoreEmptyMatches(t *testing.T) {
	scorer := NewScorer(testCatalog())
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	result := scorer.Score(nil, 0, nil, now)
	if result.FinalScore != 0 {
		t.Errorf("final score = %v, want 0 for no matches", result.FinalScore)
	}
	if result.Grade != "D (Poor)" {
		t.Errorf("grade = %q, want %q", result.Grade, "D (Poor)")
	}
	zero := models.ComponentScores{}
	if result.Components != zero {
		t.Errorf("components = %+v, want all zero", result.Components)
	}
}

func TestGradeBandsPartition(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "D (Poor)"},
		{44.99, "D (Poor)"},
		{45, "C (Marginal)"},
		{54.99, "C (Marginal)"},
		{55, "B (Satisfactory)"},
		{65, "B+ (Good)"},
		{75, "A (Very Good)"},
		{84.99, "A (Very Good)"},
		{85, "A+ (Excellent)"},
		{100, "A+ (Excellent)"},
	}
	for _, c := range cases {
		if got := gradeFor(c.score); got != c.want {
			t.Errorf("gradeFor(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestDeliveryDeadlinePressure(t *testing.T) {
	scorer := NewScorer(testCatalog())
	matches := testMatches()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Lead times average well under 70% of 120 days remaining.
	relaxed := time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC)
	// 20 days remaining puts the weighted lead time over the 70% line.
	tight := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)

	relaxedScore := scorer.DeliveryCapability(matches, &relaxed, now)
	tightScore := scorer.DeliveryCapability(matches, &tight, now)
	if tightScore >= relaxedScore {
		t.Errorf("tight deadline score %v not below relaxed %v", tightScore, relaxedScore)
	}
}

func TestDeadlineSensitivityInFinalScore(t *testing.T) {
	scorer := NewScorer(testCatalog())
	matches := testMatches()
	est := scorer.EstimateBidPrice(matches)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	relaxed := time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC)
	tight := time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)

	a := scorer.Score(matches, est, &relaxed, now)
	b := scorer.Score(matches, est, &tight, now)
	if b.FinalScore >= a.FinalScore {
		t.Errorf("tighter deadline final %v not below relaxed %v", b.FinalScore, a.FinalScore)
	}
}

func TestTechnicalMatchBonusCap(t *testing.T) {
	scorer := NewScorer(testCatalog())
	var matches []models.SpecMatch
	for i := 0; i < 8; i++ {
		matches = append(matches, models.SpecMatch{ProductID: "P1", SpecMatchPct: 95})
	}
	got := scorer.TechnicalMatch(matches)
	if got > 100 {
		t.Errorf("technical match = %v, want capped at 100", got)
	}
	if got < 95 {
		t.Errorf("technical match = %v, want >= 95 with all-strong matches", got)
	}
}

func TestPriceCompetitivenessMarginPenalties(t *testing.T) {
	scorer := NewScorer(testCatalog())
	matches := []models.SpecMatch{{ProductID: "P1", SpecMatchPct: 100}}
	// Catalog cost of P1 is 1450*500 = 725000.
	const cost = 725000.0

	ideal := scorer.PriceCompetitiveness(cost/(1-IdealMargin), matches)
	thin := scorer.PriceCompetitiveness(cost*1.01, matches)
	if thin >= ideal {
		t.Errorf("thin margin score %v not below ideal %v", thin, ideal)
	}
	if got := scorer.PriceCompetitiveness(0, matches); got != 0 {
		t.Errorf("zero estimated price = %v, want 0", got)
	}
	if got := scorer.PriceCompetitiveness(1000, nil); got != 0 {
		t.Errorf("no matches = %v, want 0", got)
	}
}

func TestEstimateBidPrice(t *testing.T) {
	scorer := NewScorer(testCatalog())
	matches := []models.SpecMatch{
		{ProductID: "P2", SpecMatchPct: 80},
		{ProductID: "missing", SpecMatchPct: 60},
	}
	// P2: 620*250 = 155000; unknown products contribute nothing.
	want := 155000 * 1.25
	if got := scorer.EstimateBidPrice(matches); math.Abs(got-want) > 1e-6 {
		t.Errorf("estimate = %v, want %v", got, want)
	}
}
