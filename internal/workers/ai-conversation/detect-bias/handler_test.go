// internal/workers/ai-conversation/detect-bias/handler_test.go
package detectbias

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
)

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Generate(context.Context, llm.Request) (string, error) {
	return f.response, f.err
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name         string
		question     string
		gen          *fakeGenerator
		wantBiased   bool
		wantTriggers []string
		wantModel    string
		modelContain string
	}{
		{
			name:         "absolutist language",
			question:     "Obviously women are always worse at engineering",
			gen:          &fakeGenerator{response: "  Biased. The statement generalizes about a group.  "},
			wantBiased:   true,
			wantTriggers: []string{"always", "obviously"},
			wantModel:    "Biased. The statement generalizes about a group.",
		},
		{
			name:         "neutral question",
			question:     "Which companies hire data analysts in Pune?",
			gen:          &fakeGenerator{response: "Neutral."},
			wantTriggers: []string{},
			wantModel:    "Neutral.",
		},
		{
			name:         "model failure is reported as text",
			question:     "How do I prepare for interviews?",
			gen:          &fakeGenerator{err: errors.New("quota exceeded")},
			wantTriggers: []string{},
			modelContain: "quota exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(config.WorkerConfig{}), tt.gen, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{Question: tt.question})

			require.NoError(t, err)
			assert.Equal(t, tt.wantBiased, output.BiasAnalysis.NLPBased.Biased)
			assert.Equal(t, tt.wantTriggers, output.BiasAnalysis.NLPBased.TriggerWords)
			if tt.wantModel != "" {
				assert.Equal(t, tt.wantModel, output.BiasAnalysis.GeminiBased)
			}
			if tt.modelContain != "" {
				assert.Contains(t, output.BiasAnalysis.GeminiBased, tt.modelContain)
			}
		})
	}
}
