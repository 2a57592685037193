// internal/common/llm/gateway.go
package llm

import (
	"context"
	"strings"

	"career-chat-workers/internal/common/config"
	commonhttp "career-chat-workers/internal/common/http"
)

// GatewayClient talks to an internal generation gateway exposing /api/ai/generate.
type GatewayClient struct {
	baseURL     string
	apiKey      string
	maxTokens   int
	temperature float64
	http        *commonhttp.Client
}

func NewGatewayClient(cfg config.GenAIConfig) *GatewayClient {
	return &GatewayClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		http:        commonhttp.NewClient(0, cfg.MaxRetries),
	}
}

func (c *GatewayClient) Provider() string { return "gateway" }

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayRequest struct {
	Prompt      string           `json:"prompt"`
	System      string           `json:"system,omitempty"`
	History     []gatewayMessage `json:"history,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature"`
	Format      string           `json:"format,omitempty"`
}

type gatewayResponse struct {
	Text string `json:"text"`
}

func (c *GatewayClient) Generate(ctx context.Context, req Request) (string, error) {
	body := gatewayRequest{
		System:      req.System,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		body.Temperature = *req.Temperature
	}
	if req.JSON {
		body.Format = "json"
	}
	// the last user message is the prompt, everything before it is history
	for i, m := range req.Messages {
		if i == len(req.Messages)-1 {
			body.Prompt = m.Content
			break
		}
		body.History = append(body.History, gatewayMessage{Role: string(m.Role), Content: m.Content})
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp gatewayResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/ai/generate", headers, body, &resp); err != nil {
		if commonhttp.IsTimeout(err) {
			return "", classify(ctx, context.DeadlineExceeded)
		}
		return "", classify(ctx, err)
	}
	return nonEmpty(resp.Text)
}
