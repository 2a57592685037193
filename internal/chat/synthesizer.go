// internal/chat/synthesizer.go
package chat

import (
	"context"
	"encoding/json"
	"strings"

	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/realtime"
	"career-chat-workers/internal/retrieval"
	"career-chat-workers/internal/structuring"
)

const (
	rephraseSystem = "Given chat history and a new user question, rephrase it as a standalone question. " +
		"Return only the question."

	answerSystem = "You are an assistant answering based on the provided context:\n"

	answerFormat = `

Reply with a single JSON object of this shape and nothing else:
{"summary": "one line", "sections": [{"title": "...", "content": ["Label value", "..."], "icon": "info|calendar|briefcase|newspaper"}], "links": [{"text": "...", "url": "...", "type": "website|news|career|event|foundation"}], "actions": [{"type": "apply|register", "text": "...", "url": "..."}]}`

	noContext = "No matching documents were found."
)

// Synthesizer produces grounded answers from context and chat history.
type Synthesizer struct {
	gen          llm.Generator
	historyLimit int
	temperature  float64
}

func NewSynthesizer(gen llm.Generator, historyLimit int, temperature float64) *Synthesizer {
	return &Synthesizer{gen: gen, historyLimit: historyLimit, temperature: temperature}
}

// Standalone rewrites question so it can be understood without history.
// With no history, or when the model fails, the question is returned as is.
func (s *Synthesizer) Standalone(ctx context.Context, question string, history []models.Message) string {
	msgs := s.historyMessages(history)
	if len(msgs) == 0 {
		return question
	}

	temperature := 0.0
	out, err := s.gen.Generate(ctx, llm.Request{
		System:      rephraseSystem,
		Messages:    append(msgs, llm.Message{Role: llm.RoleUser, Content: question}),
		Temperature: &temperature,
	})
	if err != nil || strings.TrimSpace(out) == "" {
		return question
	}
	return strings.TrimSpace(out)
}

// Answer generates the raw answer text for question over contextText.
func (s *Synthesizer) Answer(ctx context.Context, question, contextText string, history []models.Message) (string, error) {
	if strings.TrimSpace(contextText) == "" {
		contextText = noContext
	}
	temperature := s.temperature
	msgs := append(s.historyMessages(history), llm.Message{Role: llm.RoleUser, Content: question})
	return s.gen.Generate(ctx, llm.Request{
		System:      answerSystem + contextText + answerFormat,
		Messages:    msgs,
		Temperature: &temperature,
		JSON:        true,
	})
}

// historyMessages converts the tail of the stored history into model turns.
// Stored AI answers are structured documents; they are rendered back to text.
func (s *Synthesizer) historyMessages(history []models.Message) []llm.Message {
	if s.historyLimit > 0 && len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		switch m.Type {
		case models.MessageHuman:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: m.Content})
		case models.MessageAI:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: readableContent(m.Content)})
		}
	}
	return out
}

func readableContent(content string) string {
	var doc models.StructuredAnswer
	if strings.HasPrefix(strings.TrimSpace(content), "{") && json.Unmarshal([]byte(content), &doc) == nil && doc.Summary != "" {
		return structuring.Render(doc)
	}
	return content
}

// BuildContext joins retrieved documents and live data into one context block.
func BuildContext(docs []retrieval.Document, live map[models.RealtimeSource][]realtime.Item) string {
	parts := []string{}
	if c := retrieval.FormatContext(docs); c != "" {
		parts = append(parts, c)
	}
	if c := realtime.FormatContext(live); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "\n\n")
}
