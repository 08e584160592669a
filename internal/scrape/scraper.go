// Package scrape fetches web pages for lead discovery and reduces them to
// visible text.
package scrape

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Result holds a fetched page with the scraper that produced it.
type Result struct {
	Page   model.CrawledPage
	Source string // "local_http" or "jina"
}

// Scraper fetches a single URL and returns its visible text.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
	Supports(url string) bool
}
