package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/match"
	"github.com/rakesh/rfp-evaluator/internal/models"
	"github.com/rakesh/rfp-evaluator/internal/pricing"
	"github.com/rakesh/rfp-evaluator/internal/scoring"
)

// upcomingWindowDays is the shortlist horizon: only opportunities due
// within this many days are considered for evaluation.
const upcomingWindowDays = 90

// LineItemSplitter breaks a scope-of-supply text into discrete product
// requirements. The production implementation calls the local LLM; the
// pipeline falls back to SplitScope when none is supplied or the call
// fails.
type LineItemSplitter interface {
	SplitLineItems(ctx context.Context, scope string) ([]string, error)
}

// Pipeline wires the matcher, scorer, and pricing engine around one
// catalog Set. All methods are pure transformations of their inputs;
// the Set is never mutated.
type Pipeline struct {
	catalog *catalog.Set
	scorer  *scoring.Scorer
	engine  *pricing.Engine
}

func New(set *catalog.Set) *Pipeline {
	return &Pipeline{
		catalog: set,
		scorer:  scoring.NewScorer(set),
		engine:  pricing.NewEngine(set),
	}
}

func (p *Pipeline) Scorer() *scoring.Scorer { return p.scorer }

func (p *Pipeline) Catalog() *catalog.Set { return p.catalog }

// ScoredRFP pairs a candidate opportunity with its viability verdict.
type ScoredRFP struct {
	RFP   models.RFP            `json:"rfp"`
	Score models.ViabilityScore `json:"score"`
}

// FilterUpcoming keeps opportunities whose submission deadline falls
// within the 90-day window starting at now. Opportunities without a
// parseable deadline are dropped; there is no basis for urgency
// ranking without one.
func FilterUpcoming(rfps []models.RFP, now time.Time) []models.RFP {
	horizon := now.AddDate(0, 0, upcomingWindowDays)
	upcoming := make([]models.RFP, 0, len(rfps))
	for _, r := range rfps {
		if r.SubmissionDeadline == nil {
			continue
		}
		d := *r.SubmissionDeadline
		if d.Before(now) || d.After(horizon) {
			continue
		}
		upcoming = append(upcoming, r)
	}
	return upcoming
}

// ScoreCandidates runs the coarse quick-match and viability scorer over
// every candidate. Opportunities with no catalog signal score 0 and
// stay in the list so the comparison is complete.
func (p *Pipeline) ScoreCandidates(rfps []models.RFP, now time.Time) []ScoredRFP {
	scored := make([]ScoredRFP, 0, len(rfps))
	for _, r := range rfps {
		matches := match.QuickMatch(r.CombinedSpecText(), p.catalog.Products())
		estimate := p.scorer.EstimateBidPrice(matches)
		score := p.scorer.Score(matches, estimate, r.SubmissionDeadline, now)
		scored = append(scored, ScoredRFP{RFP: r, Score: score})
	}
	return scored
}

// SelectBest returns the highest-scored candidate. Ties keep the
// earlier input position so the result is deterministic.
func SelectBest(scored []ScoredRFP) (ScoredRFP, bool) {
	if len(scored) == 0 {
		return ScoredRFP{}, false
	}
	ranked := make([]ScoredRFP, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.FinalScore > ranked[j].Score.FinalScore
	})
	return ranked[0], true
}

// SelectByDeadline returns the most urgent opportunity, the simpler
// selection rule used when scoring is not wanted. Candidates without a
// deadline are skipped.
func SelectByDeadline(rfps []models.RFP) (models.RFP, bool) {
	var best models.RFP
	found := false
	for _, r := range rfps {
		if r.SubmissionDeadline == nil {
			continue
		}
		if !found || r.SubmissionDeadline.Before(*best.SubmissionDeadline) {
			best = r
			found = true
		}
	}
	return best, found
}

// Analyze runs the full evaluation for one selected opportunity:
// viability scoring, line-item splitting, per-item matching, pricing,
// and consolidation into the final report. splitter may be nil; the
// heuristic splitter then handles the scope text. An opportunity whose
// scope yields no line items still produces a report with the
// viability verdict and an empty line-item table.
func (p *Pipeline) Analyze(ctx context.Context, rfp models.RFP, splitter LineItemSplitter, now time.Time) (models.FinalReport, error) {
	if p.catalog.ProductCount() == 0 {
		return models.FinalReport{}, fmt.Errorf("product catalog is empty")
	}

	quick := match.QuickMatch(rfp.CombinedSpecText(), p.catalog.Products())
	estimate := p.scorer.EstimateBidPrice(quick)
	score := p.scorer.Score(quick, estimate, rfp.SubmissionDeadline, now)

	texts := p.splitLineItems(ctx, splitter, rfp.ScopeOfSupply)
	items := make([]models.LineItem, 0, len(texts))
	for _, t := range texts {
		items = append(items, models.NewLineItem(t))
	}

	results := match.MatchLineItems(items, p.catalog.Products())
	priced := p.engine.PriceLineItems(results, rfp.TestingRequirements)

	report := Consolidate(rfp, score, results, priced)
	report.ID = uuid.New()
	report.CreatedAt = now
	return report, nil
}

func (p *Pipeline) splitLineItems(ctx context.Context, splitter LineItemSplitter, scope string) []string {
	if splitter != nil {
		if texts, err := splitter.SplitLineItems(ctx, scope); err == nil && len(texts) > 0 {
			return texts
		}
	}
	return SplitScope(scope)
}
