package scrape

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *http.Response
		body    string
		blocked bool
		kind    BlockType
	}{
		{"nil response", nil, "", false, BlockNone},
		{"200 with captcha widget", &http.Response{StatusCode: 200}, "g-recaptcha", false, BlockNone},
		{"429", &http.Response{StatusCode: 429}, "", true, BlockRateLimit},
		{"403 cf-ray", &http.Response{StatusCode: 403, Header: http.Header{"Cf-Ray": {"x"}}}, "", true, BlockCloudflare},
		{"503 cloudflare server", &http.Response{StatusCode: 503, Header: http.Header{"Server": {"Cloudflare"}}}, "", true, BlockCloudflare},
		{"challenge body", &http.Response{StatusCode: 403, Header: http.Header{}}, "Checking your browser before accessing", true, BlockCloudflare},
		{"captcha body", &http.Response{StatusCode: 403, Header: http.Header{}}, "solve the hCaptcha", true, BlockCaptcha},
		{"plain 404", &http.Response{StatusCode: 404, Header: http.Header{}}, "not found", false, BlockNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			blocked, kind := DetectBlock(tt.resp, []byte(tt.body))
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
