// internal/common/llm/llm.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/metrics"
)

var (
	ErrLLMTimeout         = errors.New("LLM_TIMEOUT")
	ErrLLMSynthesisFailed = errors.New("LLM_SYNTHESIS_FAILED")
	ErrEmptyResponse      = errors.New("empty model response")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is a provider-neutral generation request.
type Request struct {
	System      string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
	// JSON asks providers that support it for a JSON response body.
	JSON bool
}

// Prompt builds a single-turn request.
func Prompt(text string) Request {
	return Request{Messages: []Message{{Role: RoleUser, Content: text}}}
}

// Generator produces text from a model.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Provider() string
}

// Embedder turns text into a dense vector for kNN retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// New returns the generator selected by cfg.APIs.GenAI.Provider, wrapped with metrics.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	g := cfg.APIs.GenAI
	var (
		gen Generator
		err error
	)
	switch g.Provider {
	case "", "gemini":
		gen, err = NewGeminiClient(ctx, g)
	case "anthropic":
		gen = NewAnthropicClient(cfg.APIs.Anthropic, g)
	case "gateway":
		gen = NewGatewayClient(g)
	default:
		return nil, fmt.Errorf("unknown genai provider %q", g.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithMetrics(gen), nil
}

// classify maps a provider failure onto the package sentinels.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrLLMTimeout, err)
	}
	if errors.Is(err, ErrLLMTimeout) || errors.Is(err, ErrLLMSynthesisFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrLLMSynthesisFailed, err)
}

func nonEmpty(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %w", ErrLLMSynthesisFailed, ErrEmptyResponse)
	}
	return text, nil
}

type instrumented struct {
	next Generator
}

// WithMetrics counts requests per provider and outcome.
func WithMetrics(g Generator) Generator {
	return &instrumented{next: g}
}

func (i *instrumented) Provider() string { return i.next.Provider() }

func (i *instrumented) Generate(ctx context.Context, req Request) (string, error) {
	text, err := i.next.Generate(ctx, req)
	outcome := "success"
	switch {
	case errors.Is(err, ErrLLMTimeout):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	metrics.LLMRequests.WithLabelValues(i.next.Provider(), outcome).Inc()
	return text, err
}
