package scrape

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// HostLimiter keeps one token bucket per host so a search page full of
// links into the same site does not hammer it.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewHostLimiter allows rps requests per second per host. rps <= 0 disables
// limiting.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	l := rate.Limit(rps)
	if rps <= 0 {
		l = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    l,
		burst:    burst,
	}
}

// Wait blocks until a request to rawURL's host is allowed.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	if h == nil {
		return nil
	}
	if err := h.get(hostOf(rawURL)).Wait(ctx); err != nil {
		return eris.Wrap(err, "scrape: rate limit wait")
	}
	return nil
}

func (h *HostLimiter) get(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = l
	}
	return l
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
