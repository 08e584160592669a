package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  string
		wantText string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"id": "chatcmpl-1",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": " Madame, Monsieur \n"}}],
				"usage": {"prompt_tokens": 10, "completion_tokens": 5}
			}`,
			wantText: "Madame, Monsieur",
		},
		{
			name:    "api error message",
			status:  http.StatusUnauthorized,
			body:    `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`,
			wantErr: "unexpected status 401: Incorrect API key provided",
		},
		{
			name:    "raw error body",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			wantErr: "unexpected status 502: upstream down",
		},
		{
			name:    "malformed response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"id": "x", "choices": []}`,
			wantErr: "no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL+"/v1/"))
			resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
				Messages: []Message{{Role: "user", Content: "hi"}},
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resp.Text())
			assert.Equal(t, 5, resp.Usage.CompletionTokens)
		})
	}
}

func TestChatCompletion_DefaultModelAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req ChatCompletionRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, "my-model", req.Model)
		require.NotNil(t, req.MaxTokens)
		assert.Equal(t, 1000, *req.MaxTokens)
		assert.Nil(t, req.Temperature)
		assert.NotContains(t, string(raw), "temperature")

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	maxTokens := 1000
	resp, err := NewClient("k", WithBaseURL(srv.URL), WithModel("my-model")).ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages:  []Message{{Role: "user", Content: "hi"}},
		MaxTokens: &maxTokens,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text())
}

func TestChatCompletion_ExplicitModelWins(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL), WithHTTPClient(srv.Client())).ChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "gpt-4o",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient("k").(*httpClient)
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, defaultModel, c.model)
}

func TestText_Empty(t *testing.T) {
	t.Parallel()

	var r *ChatCompletionResponse
	assert.Empty(t, r.Text())
	assert.Empty(t, (&ChatCompletionResponse{}).Text())
}
