// internal/common/llm/anthropic.go
package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"career-chat-workers/internal/common/config"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicClient generates with Claude through the official SDK.
type AnthropicClient struct {
	client      sdk.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewAnthropicClient(cfg config.AnthropicConfig, gen config.GenAIConfig, opts ...option.RequestOption) *AnthropicClient {
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if gen.MaxRetries > 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(gen.MaxRetries))
	}
	reqOpts = append(reqOpts, opts...)

	return &AnthropicClient{
		client:      sdk.NewClient(reqOpts...),
		model:       cfg.Model,
		maxTokens:   gen.MaxTokens,
		temperature: gen.Temperature,
	}
}

func (c *AnthropicClient) Provider() string { return "anthropic" }

func (c *AnthropicClient) Generate(ctx context.Context, req Request) (string, error) {
	msgs := make([]sdk.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := sdk.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			msgs = append(msgs, sdk.NewAssistantMessage(block))
			continue
		}
		msgs = append(msgs, sdk.NewUserMessage(block))
	}

	maxTokens := pick(req.MaxTokens, pick(c.maxTokens, defaultAnthropicMaxTokens))
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
	}
	system := req.System
	if req.JSON {
		system = strings.TrimSpace(system + "\nRespond with a single JSON object and nothing else.")
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	params.Temperature = sdk.Float(temperature)

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(ctx, eris.Wrap(err, "anthropic: create message"))
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return nonEmpty(b.String())
}
