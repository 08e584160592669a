package compose

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/pkg/anthropic"
	"github.com/sells-group/outreach-cli/pkg/openai"
)

// Request is a single-turn generation request.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
	Purpose   string // "letter" or "summary", for cost logs
}

// Provider turns a prompt into text.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// AnthropicProvider generates text with the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// NewAnthropicProvider creates an AnthropicProvider for model.
func NewAnthropicProvider(client anthropic.Client, model string) *AnthropicProvider {
	return &AnthropicProvider{client: client, model: model}
}

// Complete implements Provider.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.model,
		MaxTokens: int64(req.MaxTokens),
		System:    req.System,
		Messages:  []anthropic.Message{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "compose: anthropic completion")
	}
	resp.Usage.LogCost(p.model, req.Purpose)

	text := resp.Text()
	if text == "" {
		return "", eris.New("compose: anthropic returned no text")
	}
	return text, nil
}

// OpenAIProvider generates text with an OpenAI-compatible endpoint.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates an OpenAIProvider. An empty model uses the
// client's default.
func NewOpenAIProvider(client openai.Client, model string) *OpenAIProvider {
	return &OpenAIProvider{client: client, model: model}
}

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	var msgs []openai.Message
	if req.System != "" {
		msgs = append(msgs, openai.Message{Role: "system", Content: req.System})
	}
	msgs = append(msgs, openai.Message{Role: "user", Content: req.Prompt})

	creq := openai.ChatCompletionRequest{Model: p.model, Messages: msgs}
	if req.MaxTokens > 0 {
		n := req.MaxTokens
		creq.MaxTokens = &n
	}

	resp, err := p.client.ChatCompletion(ctx, creq)
	if err != nil {
		return "", eris.Wrap(err, "compose: openai completion")
	}

	text := resp.Text()
	if text == "" {
		return "", eris.New("compose: openai returned no text")
	}
	return text, nil
}
