// Package openai provides an analysis Provider backed by the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/protokollo/protokollo/pkg/provider/llm"
)

const (
	defaultTemperature = 0.4
	defaultMaxTokens   = 8192
)

// Provider implements llm.Provider using the OpenAI API.
type Provider struct {
	client    oai.Client
	model     string
	maxTokens int64
}

// config holds optional configuration for the provider.
type config struct {
	baseURL   string
	timeout   time.Duration
	maxTokens int64
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL. Useful for
// OpenAI-compatible gateways and for tests.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int64) Option {
	return func(c *config) {
		c.maxTokens = n
	}
}

// New constructs a new OpenAI analysis Provider.
func New(apiKey string, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai: model must not be empty")
	}

	cfg := &config{maxTokens: defaultMaxTokens}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	client := oai.NewClient(reqOpts...)
	return &Provider{client: client, model: model, maxTokens: cfg.maxTokens}, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "openai" }

// Analyze implements llm.Provider. The request uses JSON response mode so the
// model cannot wrap the document in prose or code fences.
func (p *Provider) Analyze(ctx context.Context, req llm.Request) ([]byte, error) {
	system, user := llm.BuildPrompts(req)

	params := oai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(system),
			oai.UserMessage(user),
		},
		Temperature:         param.NewOpt(defaultTemperature),
		MaxCompletionTokens: param.NewOpt(p.maxTokens),
		ResponseFormat: oai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty choices in response")
	}
	return []byte(resp.Choices[0].Message.Content), nil
}
