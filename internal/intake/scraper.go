package intake

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// TenderScraperConfig tunes the listing crawl.
type TenderScraperConfig struct {
	UserAgent       string
	MaxPages        int
	DomainDelay     time.Duration
	RequestTimeout  time.Duration
	ParallelThreads int
	IgnoreRobotsTxt bool
	// LinkKeywords mark anchors worth following from the listing page.
	LinkKeywords []string
}

// TenderScraper crawls a tender publication site: it visits the listing
// page, follows links that look like tender notices, and returns the
// detail pages as TenderDocuments ready for section extraction.
type TenderScraper struct {
	config  TenderScraperConfig
	visited map[string]bool
	mu      sync.Mutex
}

func NewTenderScraper(config TenderScraperConfig) *TenderScraper {
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.DomainDelay == 0 {
		config.DomainDelay = 1 * time.Second
	}
	if config.ParallelThreads == 0 {
		config.ParallelThreads = 2
	}
	if config.MaxPages == 0 {
		config.MaxPages = 50
	}
	if len(config.LinkKeywords) == 0 {
		config.LinkKeywords = []string{"tender", "rfp", "bid", "enquiry", "procurement", "nit"}
	}
	return &TenderScraper{
		config:  config,
		visited: make(map[string]bool),
	}
}

// Scrape crawls one listing URL and returns the tender detail pages it
// found. Pages that fail to fetch are logged and skipped; an error is
// returned only when the listing page itself cannot be visited.
func (s *TenderScraper) Scrape(ctx context.Context, listURL string) ([]TenderDocument, error) {
	parsed, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing URL: %w", err)
	}

	opts := []colly.CollectorOption{
		colly.UserAgent(s.config.UserAgent),
		colly.AllowedDomains(parsed.Host),
		colly.MaxDepth(2),
		colly.DetectCharset(),
	}
	if s.config.IgnoreRobotsTxt {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}
	c := colly.NewCollector(opts...)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: s.config.ParallelThreads,
		Delay:       s.config.DomainDelay,
		RandomDelay: s.config.DomainDelay / 2,
	})
	c.SetRequestTimeout(s.config.RequestTimeout)

	detail := c.Clone()

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	detail.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || !s.looksLikeTenderLink(link, e.Text) {
			return
		}
		if !s.markVisited(link) {
			return
		}
		if err := detail.Visit(link); err != nil {
			log.Printf("intake: skipping %s: %v", link, err)
		}
	})

	var docs []TenderDocument
	var docsMu sync.Mutex
	detail.OnResponse(func(r *colly.Response) {
		title, _ := PageTitle(bytes.NewReader(r.Body))
		text, err := HTMLToText(bytes.NewReader(r.Body))
		if err != nil {
			log.Printf("intake: failed to parse %s: %v", r.Request.URL, err)
			return
		}
		docsMu.Lock()
		docs = append(docs, TenderDocument{
			URL:       r.Request.URL.String(),
			Title:     title,
			Text:      text,
			HTML:      SanitizeHTML(string(r.Body)),
			FetchedAt: time.Now(),
		})
		docsMu.Unlock()
	})
	detail.OnError(func(r *colly.Response, err error) {
		log.Printf("intake: detail fetch failed for %s: %v", r.Request.URL, err)
	})

	if err := c.Visit(listURL); err != nil {
		return nil, fmt.Errorf("listing visit failed: %w", err)
	}
	c.Wait()
	detail.Wait()

	if ctx.Err() != nil {
		return docs, ctx.Err()
	}
	return docs, nil
}

func (s *TenderScraper) looksLikeTenderLink(link, anchorText string) bool {
	haystack := strings.ToLower(link + " " + anchorText)
	for _, kw := range s.config.LinkKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// markVisited returns false when the link was already seen or the page
// budget is spent.
func (s *TenderScraper) markVisited(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visited[link] || len(s.visited) >= s.config.MaxPages {
		return false
	}
	s.visited[link] = true
	return true
}

// ScrapeSources crawls several listing URLs and pools the results,
// deduplicating by URL across sources.
func (s *TenderScraper) ScrapeSources(ctx context.Context, listURLs []string) ([]TenderDocument, error) {
	var all []TenderDocument
	seen := make(map[string]bool)
	var lastErr error
	for _, u := range listURLs {
		docs, err := s.Scrape(ctx, u)
		if err != nil {
			lastErr = err
			log.Printf("intake: source %s failed: %v", u, err)
			continue
		}
		for _, d := range docs {
			if seen[d.URL] {
				continue
			}
			seen[d.URL] = true
			all = append(all, d)
		}
	}
	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}
