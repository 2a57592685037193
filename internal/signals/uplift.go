// internal/signals/uplift.go
package signals

import (
	"context"
	"fmt"
	"strings"

	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/models"
)

// UpliftMarker identifies an empowering message already sent in a conversation.
const UpliftMarker = "believing in yourself"

// DefaultUpliftTopic is the topic of the empowering message.
const DefaultUpliftTopic = "women empowerment"

const upliftPrompt = "Share a real, short, and inspiring story or message on the topic of %s. " +
	"Make sure it feels personal and motivational for a woman who might be feeling low, " +
	"underconfident, or demotivated."

// FallbackUplift is used when the model cannot produce a message.
const FallbackUplift = "Every expert was once a beginner, and setbacks are part of every career story. " +
	"Keep believing in yourself, even on the hard days. Take one small step today and be proud of it."

// NeedsUplift reports whether a negative turn should get an empowering
// message: only once per conversation.
func NeedsUplift(s Sentiment, conv *models.Conversation) bool {
	if s != SentimentNegative {
		return false
	}
	if conv == nil {
		return true
	}
	return !conv.HasAIMessageContaining(UpliftMarker)
}

type Uplifter struct {
	gen llm.Generator
}

func NewUplifter(gen llm.Generator) *Uplifter {
	return &Uplifter{gen: gen}
}

// Message returns an empowering message on topic, falling back to a fixed text.
func (u *Uplifter) Message(ctx context.Context, topic string) (string, bool) {
	if topic == "" {
		topic = DefaultUpliftTopic
	}
	temperature := 0.7
	req := llm.Prompt(fmt.Sprintf(upliftPrompt, topic))
	req.Temperature = &temperature

	out, err := u.gen.Generate(ctx, req)
	if err != nil || strings.TrimSpace(out) == "" {
		return FallbackUplift, false
	}
	return strings.TrimSpace(out), true
}
