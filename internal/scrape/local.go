package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

const maxBodyBytes = 2 << 20

// browserHeaders mimic a desktop Chrome navigation from a search results
// page. Accept-Encoding is left to the transport so gzip stays transparent.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7",
	"Referer":                   "https://www.google.com/",
	"Sec-Ch-Ua":                 `"Not A(Brand";v="8", "Chromium";v="132", "Google Chrome";v="132"`,
	"Sec-Ch-Ua-Mobile":          "?0",
	"Sec-Ch-Ua-Platform":        `"Windows"`,
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "cross-site",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36",
}

// LocalScraper fetches HTML via net/http and reduces it to visible text.
type LocalScraper struct {
	client  *http.Client
	limiter *HostLimiter
}

// LocalOption configures a LocalScraper.
type LocalOption func(*LocalScraper)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) LocalOption {
	return func(l *LocalScraper) {
		l.client.Timeout = d
	}
}

// WithHostLimiter throttles requests per host.
func WithHostLimiter(h *HostLimiter) LocalOption {
	return func(l *LocalScraper) {
		l.limiter = h
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) LocalOption {
	return func(l *LocalScraper) {
		l.client = hc
	}
}

// NewLocalScraper creates a LocalScraper with a 10s timeout and no rate limit.
func NewLocalScraper(opts ...LocalOption) *LocalScraper {
	l := &LocalScraper{
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LocalScraper) Name() string           { return "local_http" }
func (l *LocalScraper) Supports(_ string) bool { return true }

// Scrape fetches targetURL and returns its visible text. Any status other
// than 200 is an error.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	if err := l.limiter.Wait(ctx, targetURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: create request")
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: read body")
	}

	if resp.StatusCode != http.StatusOK {
		if blocked, kind := DetectBlock(resp, body); blocked {
			return nil, eris.Errorf("local_http: blocked (%s) status %d", kind, resp.StatusCode)
		}
		return nil, eris.Errorf("local_http: status %d", resp.StatusCode)
	}

	title, text, err := VisibleText(DecodeBody(resp.Header.Get("Content-Type"), body))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: extract text")
	}

	return &Result{
		Page: model.CrawledPage{
			URL:        targetURL,
			Title:      title,
			Text:       text,
			StatusCode: resp.StatusCode,
		},
		Source: "local_http",
	}, nil
}
