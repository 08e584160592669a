// Package jina provides a client for the Jina AI reader and search API.
package jina

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the Jina AI operations used for lead discovery.
type Client interface {
	// Read fetches a URL via Jina AI Reader and returns its text content.
	Read(ctx context.Context, targetURL string) (*ReadResponse, error)
	// Search runs a web search via Jina AI Search.
	Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error)
}

// ReadResponse is the parsed reader response.
type ReadResponse struct {
	Code int      `json:"code"`
	Data ReadData `json:"data"`
}

// ReadData holds the content of a read page.
type ReadData struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Usage tracks token consumption.
type Usage struct {
	Tokens int `json:"tokens"`
}

// SearchResponse is the parsed search response.
type SearchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// SearchResult is a single ranked search hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// SearchOption configures a search request.
type SearchOption func(*searchOpts)

type searchOpts struct {
	language string
	country  string
}

// WithLanguage sets the Accept-Language sent with the search (e.g. "fr").
func WithLanguage(lang string) SearchOption {
	return func(o *searchOpts) {
		o.language = lang
	}
}

// WithCountry biases results toward a country code (e.g. "FR").
func WithCountry(code string) SearchOption {
	return func(o *searchOpts) {
		o.country = code
	}
}

// Option configures the Jina client.
type Option func(*httpClient)

// WithBaseURL sets the reader base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithSearchBaseURL sets the search base URL.
func WithSearchBaseURL(u string) Option {
	return func(c *httpClient) {
		c.searchBaseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetry sets the attempt count and initial backoff for transient
// failures (429 and 5xx). attempts <= 1 disables retries.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *httpClient) {
		c.attempts = attempts
		c.backoff = backoff
	}
}

type httpClient struct {
	apiKey        string
	baseURL       string
	searchBaseURL string
	http          *http.Client
	attempts      int
	backoff       time.Duration
}

// NewClient creates a new Jina AI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       "https://r.jina.ai",
		searchBaseURL: "https://s.jina.ai",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		attempts: 3,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// do executes req, retrying transient failures with exponential backoff.
// Returns the body and status code of the last response.
func (c *httpClient) do(ctx context.Context, req *http.Request) ([]byte, int, error) {
	attempts := c.attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := c.backoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.http.Do(req.Clone(ctx))
		if err == nil {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return nil, resp.StatusCode, eris.Wrap(readErr, "jina: read response body")
			}
			if !retryableStatusCode(resp.StatusCode) || attempt == attempts {
				return body, resp.StatusCode, nil
			}
			lastErr = eris.Errorf("jina: status %d: %s", resp.StatusCode, string(body))
		} else {
			lastErr = err
			if attempt == attempts {
				break
			}
		}

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, 0, lastErr
}

func (c *httpClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

func (c *httpClient) Read(ctx context.Context, targetURL string) (*ReadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, targetURL), nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: create request")
	}
	c.authorize(req)
	req.Header.Set("X-Return-Format", "text")

	body, status, err := c.do(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "jina: request failed")
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("jina: unexpected status %d: %s", status, string(body))
	}

	var result ReadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal response")
	}
	return &result, nil
}

func (c *httpClient) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error) {
	so := &searchOpts{}
	for _, opt := range opts {
		opt(so)
	}

	reqURL := fmt.Sprintf("%s/%s", c.searchBaseURL, url.PathEscape(query))
	if so.country != "" {
		reqURL += "?gl=" + url.QueryEscape(so.country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: create search request")
	}
	c.authorize(req)
	if so.language != "" {
		req.Header.Set("Accept-Language", so.language)
	}

	body, status, err := c.do(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "jina: search request failed")
	}

	// 422 means no results for the query.
	if status == http.StatusUnprocessableEntity {
		return &SearchResponse{Code: status}, nil
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("jina: search unexpected status %d: %s", status, string(body))
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal search response")
	}
	return &result, nil
}
