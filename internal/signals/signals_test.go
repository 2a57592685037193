// internal/signals/signals_test.go
package signals

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/models"
)

type fakeGenerator struct {
	text   string
	err    error
	calls  int32
	prompt string
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.prompt = req.Messages[len(req.Messages)-1].Content
	return f.text, f.err
}

// ==========================
// Sentiment
// ==========================

func TestDetectSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sentiment
	}{
		{"negative phrase", "I cannot do this work", SentimentNegative},
		{"curly apostrophe phrase", "Honestly I’m done with applying", SentimentNegative},
		{"phrase beats positive words", "great, another rejection, i give up", SentimentNegative},
		{"lexicon negative", "This job search is terrible and I feel so sad", SentimentNegative},
		{"lexicon positive", "I got a great offer, I am so happy", SentimentPositive},
		{"neutral question", "What Go developer jobs are open in Pune?", SentimentNeutral},
		{"negated positive", "the interview was not good", SentimentNegative},
		{"empty", "", SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSentiment(tt.text))
		})
	}
}

func TestPolarity_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, Polarity("tell me about events"))
	assert.LessOrEqual(t, Polarity("extremely excellent perfect awesome"), 1.0)
	assert.GreaterOrEqual(t, Polarity("extremely terrible awful horrible"), -1.0)
	assert.InDelta(t, -0.35, Polarity("not good"), 0.0001)
}

// ==========================
// Bias
// ==========================

func TestDetectKeywordBias(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		biased   bool
		triggers []string
	}{
		{"absolutist", "Women are always better at this, obviously.", true, []string{"always", "obviously"}},
		{"substring match", "Success stories of founders", true, []string{"success"}},
		{"neutral", "What events are happening in Bangalore?", false, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DetectKeywordBias(tt.text)
			assert.Equal(t, tt.biased, res.Biased)
			assert.Equal(t, tt.triggers, res.TriggerWords)
			if tt.biased {
				assert.Equal(t, "Biased terms detected.", res.Message)
			} else {
				assert.Equal(t, "No clear bias found using NLP-based method.", res.Message)
			}
		})
	}
}

func TestBiasDetector_Analyze(t *testing.T) {
	gen := &fakeGenerator{text: "  Neutral. The text asks a factual question.  "}
	res := NewBiasDetector(gen).Analyze(context.Background(), "Which is the best company?")

	assert.True(t, res.NLPBased.Biased)
	assert.Equal(t, []string{"best"}, res.NLPBased.TriggerWords)
	assert.Equal(t, "Neutral. The text asks a factual question.", res.GeminiBased)
	assert.True(t, strings.HasSuffix(gen.prompt, "Which is the best company?"))
}

func TestBiasDetector_ModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: llm.ErrLLMTimeout}
	res := NewBiasDetector(gen).Analyze(context.Background(), "hello")
	assert.Contains(t, res.GeminiBased, "unavailable")
	assert.False(t, res.NLPBased.Biased)
}

// ==========================
// Uplift
// ==========================

func TestNeedsUplift(t *testing.T) {
	uplifted := &models.Conversation{Messages: []models.Message{
		{Type: models.MessageHuman, Content: "i give up"},
		{Type: models.MessageAI, Content: "Keep Believing In Yourself!"},
	}}
	humanOnly := &models.Conversation{Messages: []models.Message{
		{Type: models.MessageHuman, Content: "believing in yourself is hard"},
	}}

	assert.True(t, NeedsUplift(SentimentNegative, nil))
	assert.True(t, NeedsUplift(SentimentNegative, humanOnly))
	assert.False(t, NeedsUplift(SentimentNegative, uplifted))
	assert.False(t, NeedsUplift(SentimentNeutral, nil))
}

func TestUplifter_Message(t *testing.T) {
	gen := &fakeGenerator{text: "You are capable of more than you know."}
	msg, generated := NewUplifter(gen).Message(context.Background(), "")
	assert.True(t, generated)
	assert.Equal(t, "You are capable of more than you know.", msg)
	assert.Contains(t, gen.prompt, "women empowerment")

	msg, generated = NewUplifter(&fakeGenerator{err: errors.New("quota")}).Message(context.Background(), "careers")
	assert.False(t, generated)
	assert.Contains(t, strings.ToLower(msg), UpliftMarker)
}
