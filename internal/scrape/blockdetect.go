package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot block behind a failed fetch.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockRateLimit  BlockType = "rate_limit"
)

// DetectBlock classifies a non-200 response. It is only consulted on
// failures: plenty of healthy contact pages embed a captcha widget.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil || resp.StatusCode == http.StatusOK {
		return false, BlockNone
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true, BlockRateLimit
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))
	switch {
	case strings.Contains(lower, "checking your browser"),
		strings.Contains(lower, "cf-browser-verification"),
		strings.Contains(lower, "just a moment..."):
		return true, BlockCloudflare
	case strings.Contains(lower, "captcha"):
		return true, BlockCaptcha
	}
	return false, BlockNone
}
