package intake

import (
	"context"
	"io"
	"time"
)

// FetchedDocument is the raw result of a fetch operation.
type FetchedDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
	FetchedAt   time.Time
	Headers     map[string][]string
}

// Fetcher retrieves raw content from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}

// FetchConfig controls per-domain fetch behaviour.
type FetchConfig struct {
	TimeoutSeconds int
	MaxRetries     int
	RateLimitRPS   float64
	AcceptLanguage string
	ProxyURL       string
}

// TenderDocument is one tender page pulled from a source site, before
// section extraction turns it into an RFP record.
type TenderDocument struct {
	URL       string
	Title     string
	Text      string
	HTML      string
	FetchedAt time.Time
}
