// internal/signals/bias.go
package signals

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"career-chat-workers/internal/common/llm"
)

// BiasKeywords are the absolutist and loaded terms the keyword detector flags.
var BiasKeywords = []string{
	"always", "never", "everyone knows", "clearly", "obviously", "undoubtedly",
	"no one can deny", "proven", "worst", "best", "superior", "inferior",
	"fail", "success", "disaster", "genius",
}

const (
	biasDetectedMessage = "Biased terms detected."
	noBiasMessage       = "No clear bias found using NLP-based method."
)

const biasPrompt = `You are a bias detection assistant. Analyze the following text and tell if it's biased or neutral.
Explain the reason in 2-3 lines.

Text:
%s`

// KeywordBias is the result of the keyword detector.
type KeywordBias struct {
	Biased       bool     `json:"biased"`
	TriggerWords []string `json:"trigger_words"`
	Message      string   `json:"message"`
}

// BiasAnalysis pairs the keyword result with the model's explanation.
type BiasAnalysis struct {
	NLPBased    KeywordBias `json:"nlp_based"`
	GeminiBased string      `json:"gemini_based"`
}

// DetectKeywordBias reports every keyword that occurs as a substring of text,
// case-insensitively, in keyword list order.
func DetectKeywordBias(text string) KeywordBias {
	lower := strings.ToLower(text)
	hits := []string{}
	for _, kw := range BiasKeywords {
		if strings.Contains(lower, kw) {
			hits = append(hits, kw)
		}
	}
	res := KeywordBias{Biased: len(hits) > 0, TriggerWords: hits, Message: noBiasMessage}
	if res.Biased {
		res.Message = biasDetectedMessage
	}
	return res
}

// BiasDetector runs the keyword and model detectors.
type BiasDetector struct {
	gen llm.Generator
}

func NewBiasDetector(gen llm.Generator) *BiasDetector {
	return &BiasDetector{gen: gen}
}

// ModelBias asks the model for a short biased/neutral verdict. Failures come
// back as an explanatory string so a turn never fails on bias analysis.
func (d *BiasDetector) ModelBias(ctx context.Context, text string) string {
	temperature := 0.3
	req := llm.Prompt(fmt.Sprintf(biasPrompt, text))
	req.Temperature = &temperature

	out, err := d.gen.Generate(ctx, req)
	if err != nil {
		return fmt.Sprintf("Model-based bias analysis unavailable: %v", err)
	}
	return strings.TrimSpace(out)
}

// Analyze runs both detectors concurrently.
func (d *BiasDetector) Analyze(ctx context.Context, text string) BiasAnalysis {
	var out BiasAnalysis
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.NLPBased = DetectKeywordBias(text)
		return nil
	})
	g.Go(func() error {
		out.GeminiBased = d.ModelBias(gctx, text)
		return nil
	})
	_ = g.Wait()
	return out
}
