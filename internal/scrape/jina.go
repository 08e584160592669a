package scrape

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/jina"
)

// circuitBreaker skips a flaky upstream after consecutive failures.
type circuitBreaker struct {
	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	openUntil   time.Time
	threshold   int
	window      time.Duration
	cooldown    time.Duration
	now         func() time.Time
}

func newCircuitBreaker(threshold int, window, cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{
		threshold: threshold,
		window:    window,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

func (cb *circuitBreaker) isOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.now().Before(cb.openUntil)
}

func (cb *circuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	now := cb.now()
	if now.Sub(cb.lastFailure) > cb.window {
		cb.failures = 0
	}
	cb.failures++
	cb.lastFailure = now
	if cb.failures >= cb.threshold {
		cb.openUntil = now.Add(cb.cooldown)
		zap.L().Warn("scrape: jina circuit breaker opened",
			zap.Int("failures", cb.failures),
			zap.Duration("cooldown", cb.cooldown),
		)
	}
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
}

// JinaAdapter wraps the Jina reader as a fallback Scraper. Three failures
// within 30s open the circuit for 60s.
type JinaAdapter struct {
	client  jina.Client
	breaker *circuitBreaker
}

// NewJinaAdapter creates a JinaAdapter from a Jina client.
func NewJinaAdapter(client jina.Client) *JinaAdapter {
	return &JinaAdapter{
		client:  client,
		breaker: newCircuitBreaker(3, 30*time.Second, 60*time.Second),
	}
}

func (j *JinaAdapter) Name() string { return "jina" }

// Supports returns true unless the circuit breaker is open.
func (j *JinaAdapter) Supports(_ string) bool {
	return !j.breaker.isOpen()
}

// Scrape reads targetURL through Jina.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	if j.breaker.isOpen() {
		return nil, eris.New("jina: circuit breaker open")
	}

	resp, err := j.client.Read(ctx, targetURL)
	if err != nil {
		j.breaker.recordFailure()
		return nil, err
	}
	if unusable(resp) {
		j.breaker.recordFailure()
		return nil, eris.Errorf("jina: unusable response for %s", targetURL)
	}

	j.breaker.recordSuccess()
	url := resp.Data.URL
	if url == "" {
		url = targetURL
	}
	return &Result{
		Page: model.CrawledPage{
			URL:        url,
			Title:      resp.Data.Title,
			Text:       resp.Data.Content,
			StatusCode: 200,
		},
		Source: "jina",
	}, nil
}

var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"403 forbidden",
	"just a moment",
	"attention required",
}

// unusable reports whether a reader response is empty or a challenge page.
func unusable(resp *jina.ReadResponse) bool {
	if resp == nil || (resp.Code != 0 && resp.Code != 200) {
		return true
	}
	content := strings.TrimSpace(resp.Data.Content)
	if content == "" {
		return true
	}
	if len(content) < 1000 {
		lower := strings.ToLower(content)
		for _, sig := range challengeSignatures {
			if strings.Contains(lower, sig) {
				return true
			}
		}
	}
	return false
}
