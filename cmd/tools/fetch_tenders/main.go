package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rakesh/rfp-evaluator/internal/intake"
)

// Crawls tender listing pages and dumps the discovered notices as text
// files, ready for score_batch.
func main() {
	urlsCSV := flag.String("urls", "", "Comma-separated tender listing URLs")
	outDir := flag.String("out", "", "Directory to write tender text files into (optional)")
	maxPages := flag.Int("max-pages", 50, "Page budget per listing")
	timeoutSec := flag.Int("timeout-sec", 120, "Overall crawl timeout in seconds")
	flag.Parse()

	var urls []string
	for _, u := range strings.Split(*urlsCSV, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		exitErr(errors.New("missing -urls: provide at least one listing URL"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutSec)*time.Second)
	defer cancel()

	scraper := intake.NewTenderScraper(intake.TenderScraperConfig{MaxPages: *maxPages})
	docs, err := scraper.ScrapeSources(ctx, urls)
	if err != nil {
		exitErr(err)
	}

	now := time.Now().UTC()
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Title", "Deadline", "Issuer", "URL"})

	for i, doc := range docs {
		rfp := intake.BuildRFP(doc, now)
		deadline := ""
		if rfp.SubmissionDeadline != nil {
			deadline = rfp.SubmissionDeadline.Format("2006-01-02")
		}
		t.AppendRow(table.Row{i + 1, truncate(rfp.ProjectName, 40), deadline, truncate(rfp.IssuedBy, 30), doc.URL})

		if *outDir != "" {
			name := fmt.Sprintf("tender_%03d.txt", i+1)
			if err := os.WriteFile(filepath.Join(*outDir, name), []byte(doc.Text), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", name, err)
			}
		}
	}
	t.Render()
	fmt.Printf("Found %d tender pages\n", len(docs))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
