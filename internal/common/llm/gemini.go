// internal/common/llm/gemini.go
package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"career-chat-workers/internal/common/config"
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type embedFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)

// GeminiClient generates with the Gemini API through the genai SDK.
type GeminiClient struct {
	model       string
	maxTokens   int
	temperature float64
	generate    generateFunc
}

func NewGeminiClient(ctx context.Context, cfg config.GenAIConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		generate:    client.Models.GenerateContent,
	}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if maxTokens := pick(req.MaxTokens, c.maxTokens); maxTokens > 0 {
		gc.MaxOutputTokens = int32(maxTokens)
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := c.generate(ctx, c.model, contents, gc)
	if err != nil {
		return "", classify(ctx, err)
	}
	return nonEmpty(candidateText(resp))
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// GeminiEmbedder produces query embeddings for kNN retrieval.
type GeminiEmbedder struct {
	model string
	embed embedFunc
}

func NewGeminiEmbedder(ctx context.Context, cfg config.GenAIConfig) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiEmbedder{model: cfg.EmbeddingModel, embed: client.Models.EmbedContent}, nil
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.embed(ctx, e.model, []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}
	if res == nil || len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return res.Embeddings[0].Values, nil
}

func pick(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
