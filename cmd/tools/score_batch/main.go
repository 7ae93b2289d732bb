package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rakesh/rfp-evaluator/internal/catalog"
	"github.com/rakesh/rfp-evaluator/internal/db"
	"github.com/rakesh/rfp-evaluator/internal/intake"
	"github.com/rakesh/rfp-evaluator/internal/models"
	"github.com/rakesh/rfp-evaluator/internal/pipeline"
)

func main() {
	dir := flag.String("dir", "", "Directory of tender text files (*.txt)")
	useDB := flag.Bool("use-db", false, "Load the catalog from the database instead of the embedded seed data")
	all := flag.Bool("all", false, "Score every tender, not just those due within the selection window")
	analyze := flag.Bool("analyze", false, "Run the full line-item analysis for the best candidate")
	nowFlag := flag.String("now", "", "Evaluation date override (YYYY-MM-DD)")
	flag.Parse()

	if *dir == "" {
		exitErr(errors.New("missing -dir: point it at a directory of tender text files"))
	}

	now := time.Now().UTC()
	if *nowFlag != "" {
		parsed, err := time.Parse("2006-01-02", *nowFlag)
		if err != nil {
			exitErr(fmt.Errorf("invalid -now value %q: %w", *nowFlag, err))
		}
		now = parsed
	}

	ctx := context.Background()
	set, err := loadCatalog(ctx, *useDB)
	if err != nil {
		exitErr(err)
	}

	rfps, err := loadTenders(*dir, now)
	if err != nil {
		exitErr(err)
	}
	if len(rfps) == 0 {
		exitErr(fmt.Errorf("no .txt tender files found in %s", *dir))
	}

	candidates := rfps
	if !*all {
		candidates = pipeline.FilterUpcoming(rfps, now)
		if len(candidates) == 0 {
			exitErr(errors.New("no tenders due within the selection window; rerun with -all to score everything"))
		}
	}

	p := pipeline.New(set)
	scored := p.ScoreCandidates(candidates, now)
	ranked := make([]pipeline.ScoredRFP, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.FinalScore > ranked[j].Score.FinalScore
	})

	renderRanking(ranked)

	best, ok := pipeline.SelectBest(scored)
	if !ok {
		return
	}
	fmt.Printf("\nBest candidate: %s\n", best.RFP.ProjectName)
	fmt.Printf("Recommendation: %s\n", best.Score.Recommendation)

	if *analyze {
		report, err := p.Analyze(ctx, best.RFP, nil, now)
		if err != nil {
			exitErr(err)
		}
		renderReport(report)
	}
}

func loadCatalog(ctx context.Context, useDB bool) (*catalog.Set, error) {
	if !useDB {
		return catalog.LoadEmbedded()
	}
	pool, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return db.NewStore(pool).LoadCatalog(ctx)
}

func loadTenders(dir string, now time.Time) ([]models.RFP, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var rfps []models.RFP
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("skipping %s: %v", entry.Name(), err)
			continue
		}
		doc := intake.TenderDocument{
			Title: strings.TrimSuffix(entry.Name(), ".txt"),
			Text:  string(content),
		}
		rfps = append(rfps, intake.BuildRFP(doc, now))
	}
	return rfps, nil
}

func renderRanking(ranked []pipeline.ScoredRFP) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Project", "Deadline", "Tech", "Price", "Delivery", "Compliance", "Risk", "Final", "Grade"})

	for _, sr := range ranked {
		deadline := ""
		if sr.RFP.SubmissionDeadline != nil {
			deadline = sr.RFP.SubmissionDeadline.Format("2006-01-02")
		}
		cs := sr.Score.Components
		t.AppendRow(table.Row{
			sr.RFP.ProjectName, deadline,
			cs.TechnicalMatch, cs.PriceCompetitiveness, cs.DeliveryCapability,
			cs.Compliance, cs.RiskAssessment,
			sr.Score.FinalScore, sr.Score.Grade,
		})
	}
	t.Render()
}

func renderReport(report models.FinalReport) {
	fmt.Println()
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Line Item", "SKU", "Unit INR", "MOQ (m)", "Material INR", "Tests INR", "Total INR"})

	for _, li := range report.LineItems {
		item := li.LineItem
		if len(item) > 48 {
			item = item[:45] + "..."
		}
		sku := li.SelectedSKU
		if sku == "" {
			sku = "(no match)"
		}
		t.AppendRow(table.Row{
			item, sku, li.UnitPriceINR, li.MOQMeters,
			li.MaterialCostINR, li.TestCostINR, li.LineTotalINR,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Totals",
		report.Summary.TotalMaterialCostINR,
		report.Summary.TotalTestCostINR,
		report.Summary.GrandTotalINR,
	})
	t.Render()
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
