package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/models"
)

// Factor weights of the bid viability model. They sum to 1.0.
const (
	WeightTechnicalMatch       = 0.35
	WeightPriceCompetitiveness = 0.25
	WeightDeliveryCapability   = 0.15
	WeightCompliance           = 0.15
	WeightRiskAssessment       = 0.10
)

// IdealMargin is the profit margin benchmark the price curve is
// centred on, with MarginTolerance as its flat band.
const (
	IdealMargin     = 0.25
	MarginTolerance = 0.10
)

const (
	techDecay         = 0.3
	strongMatchPct    = 70
	defaultLeadTime   = 30
	highMOQThreshold  = 500
	marginEstimateFee = 1.25
)

// Scorer computes bid viability scores against a fixed catalog. It
// holds no other state; every entry point is a pure function of its
// arguments plus the read-only catalog.
type Scorer struct {
	catalog *catalog.Set
}

func NewScorer(set *catalog.Set) *Scorer {
	return &Scorer{catalog: set}
}

// EstimateBidPrice derives a rough bid price from the matched products:
// the summed catalog cost of one MOQ of each match, marked up 25%.
func (s *Scorer) EstimateBidPrice(matches []models.SpecMatch) float64 {
	var cost float64
	for _, m := range matches {
		if p, ok := s.catalog.Product(m.ProductID); ok {
			cost += p.UnitPriceINR * float64(p.MinOrderQtyMeters)
		}
	}
	return cost * marginEstimateFee
}

// TechnicalMatch scores how well the catalog covers the opportunity
// (0-100): a decay-weighted mean of the top 5 match percentages, with a
// bonus when several matches clear 70%.
func (s *Scorer) TechnicalMatch(matches []models.SpecMatch) float64 {
	var pcts []float64
	strong := 0
	for _, m := range matches {
		if m.SpecMatchPct <= 0 {
			continue
		}
		pcts = append(pcts, m.SpecMatchPct)
		if m.SpecMatchPct >= strongMatchPct {
			strong++
		}
	}
	if len(pcts) == 0 {
		return 0
	}
	if len(pcts) > 5 {
		pcts = pcts[:5]
	}
	avg := DecayWeightedMean(pcts, techDecay)
	return math.Min(avg*MultiMatchBonus(strong), 100)
}

// PriceCompetitiveness scores the estimated bid price against the
// actual catalog cost of the matched products (0-100). Margins outside
// the ideal band are penalised by the logistic curve, with extra
// multipliers for razor-thin (<5%) and implausibly fat (>50%) margins.
func (s *Scorer) PriceCompetitiveness(estimatedPrice float64, matches []models.SpecMatch) float64 {
	if estimatedPrice <= 0 || len(matches) == 0 {
		return 0
	}
	var actualCost float64
	for _, m := range matches {
		if p, ok := s.catalog.Product(m.ProductID); ok {
			actualCost += p.UnitPriceINR * float64(p.MinOrderQtyMeters)
		}
	}
	if actualCost <= 0 {
		actualCost = estimatedPrice * 0.70
	}

	margin := (estimatedPrice - actualCost) / estimatedPrice
	score := MarginLogistic(margin, IdealMargin, MarginTolerance)
	if margin < 0.05 {
		score *= 0.5
	} else if margin > 0.50 {
		score *= 0.6
	}
	return clamp01to100(score)
}

// DeliveryCapability scores lead times against the submission deadline
// (0-100). Lead times are averaged weighted by match percentage; when
// the average exceeds 70% of the days remaining the score takes a 30%
// haircut. now is explicit so deadline pressure is testable.
func (s *Scorer) DeliveryCapability(matches []models.SpecMatch, deadline *time.Time, now time.Time) float64 {
	if len(matches) == 0 {
		return 0
	}
	var totalLT, totalW float64
	for _, m := range matches {
		if p, ok := s.catalog.Product(m.ProductID); ok {
			totalLT += float64(p.LeadTimeDays) * m.SpecMatchPct
			totalW += m.SpecMatchPct
		}
	}
	avgLT := float64(defaultLeadTime)
	if totalW > 0 {
		avgLT = totalLT / totalW
	}
	base := LeadTimeBase(avgLT)

	if deadline != nil {
		daysRemaining := int(deadline.Sub(now).Hours() / 24)
		if avgLT > float64(daysRemaining)*0.7 {
			base *= 0.7
		}
	}
	return clamp01to100(base)
}

var standardsKeywords = []string{"is", "iec", "ieee", "iso"}

// Compliance scores certification posture of the matched products
// (0-100): 40 points for BIS certification fraction, 40 for standards
// coverage, 20 for warranty depth capped at 5 years.
func (s *Scorer) Compliance(matches []models.SpecMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	var bis, standards, total int
	var warrantySum float64
	for _, m := range matches {
		p, ok := s.catalog.Product(m.ProductID)
		if !ok {
			continue
		}
		total++
		if p.BISCertified {
			bis++
		}
		stds := strings.ToLower(p.Standards)
		for _, kw := range standardsKeywords {
			if strings.Contains(stds, kw) {
				standards++
				break
			}
		}
		warrantySum += math.Min(float64(p.WarrantyYears), 5)
	}
	if total == 0 {
		return 0
	}
	score := float64(bis)/float64(total)*40 +
		float64(standards)/float64(total)*40 +
		warrantySum/float64(total)/5*20
	return math.Min(score, 100)
}

// RiskAssessment scores supply risk (0-100, higher is safer):
// availability from match count, diversity from distinct categories,
// consistency penalised by high-MOQ products.
func (s *Scorer) RiskAssessment(matches []models.SpecMatch) float64 {
	if len(matches) == 0 {
		return 0
	}
	availability := math.Min(float64(len(matches))*20, 50)

	categories := make(map[string]struct{})
	for _, m := range matches {
		categories[m.Category] = struct{}{}
	}
	diversity := math.Min(float64(len(categories))*15, 30)

	highMOQ := 0
	for _, m := range matches {
		if p, ok := s.catalog.Product(m.ProductID); ok && p.MinOrderQtyMeters > highMOQThreshold {
			highMOQ++
		}
	}
	consistency := math.Max(20-float64(highMOQ)*5, 0)

	return math.Min(availability+diversity+consistency, 100)
}

// Score runs all five factors and assembles the weighted verdict.
// Every factor returns 0 on an empty match list, so a no-signal
// opportunity lands at 0.0 / "D (Poor)" rather than erroring.
func (s *Scorer) Score(matches []models.SpecMatch, estimatedPrice float64, deadline *time.Time, now time.Time) models.ViabilityScore {
	tech := s.TechnicalMatch(matches)
	price := s.PriceCompetitiveness(estimatedPrice, matches)
	delivery := s.DeliveryCapability(matches, deadline, now)
	comply := s.Compliance(matches)
	risk := s.RiskAssessment(matches)

	final := tech*WeightTechnicalMatch +
		price*WeightPriceCompetitiveness +
		delivery*WeightDeliveryCapability +
		comply*WeightCompliance +
		risk*WeightRiskAssessment

	return models.ViabilityScore{
		FinalScore:      round2(final),
		Grade:           gradeFor(final),
		NormalizedScore: round4(final / 100),
		Components: models.ComponentScores{
			TechnicalMatch:       round2(tech),
			PriceCompetitiveness: round2(price),
			DeliveryCapability:   round2(delivery),
			Compliance:           round2(comply),
			RiskAssessment:       round2(risk),
		},
		WeightedContributions: models.ComponentScores{
			TechnicalMatch:       round2(tech * WeightTechnicalMatch),
			PriceCompetitiveness: round2(price * WeightPriceCompetitiveness),
			DeliveryCapability:   round2(delivery * WeightDeliveryCapability),
			Compliance:           round2(comply * WeightCompliance),
			RiskAssessment:       round2(risk * WeightRiskAssessment),
		},
		Recommendation: recommendationFor(final, tech, price),
	}
}

func gradeFor(final float64) string {
	switch {
	case final >= 85:
		return "A+ (Excellent)"
	case final >= 75:
		return "A (Very Good)"
	case final >= 65:
		return "B+ (Good)"
	case final >= 55:
		return "B (Satisfactory)"
	case final >= 45:
		return "C (Marginal)"
	default:
		return "D (Poor)"
	}
}

func recommendationFor(final, tech, price float64) string {
	switch {
	case final >= 75:
		return "STRONGLY RECOMMEND — Proceed with bid preparation"
	case final >= 60:
		if tech < 60 {
			return "CONDITIONAL — Technical gaps identified, assess feasibility"
		}
		if price < 60 {
			return "CONDITIONAL — Pricing optimisation needed, review cost structure"
		}
		return "RECOMMEND — Good opportunity with minor optimisation potential"
	case final >= 45:
		return "CAUTION — Significant gaps, evaluate strategic value before proceeding"
	default:
		return "DO NOT PURSUE — Poor fit, resources better allocated elsewhere"
	}
}
