// internal/workers/ai-conversation/uplift-response/handler_test.go
package upliftresponse

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/signals"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	f.prompt = req.Messages[0].Content
	return f.response, f.err
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		input         *Input
		gen           *fakeGenerator
		wantResponse  string
		wantGenerated bool
		wantTopic     string
	}{
		{
			name:          "generated message on the default topic",
			input:         &Input{ConversationID: "c1"},
			gen:           &fakeGenerator{response: "  Meera failed her first three interviews...  "},
			wantResponse:  "Meera failed her first three interviews...",
			wantGenerated: true,
			wantTopic:     signals.DefaultUpliftTopic,
		},
		{
			name:          "topic override",
			input:         &Input{Topic: "career restarts"},
			gen:           &fakeGenerator{response: "It is never too late."},
			wantResponse:  "It is never too late.",
			wantGenerated: true,
			wantTopic:     "career restarts",
		},
		{
			name:         "generation failure uses the fallback",
			input:        &Input{},
			gen:          &fakeGenerator{err: errors.New("unavailable")},
			wantResponse: signals.FallbackUplift,
			wantTopic:    signals.DefaultUpliftTopic,
		},
		{
			name:         "blank generation uses the fallback",
			input:        &Input{},
			gen:          &fakeGenerator{response: "   "},
			wantResponse: signals.FallbackUplift,
			wantTopic:    signals.DefaultUpliftTopic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(LoadConfig(config.WorkerConfig{}), tt.gen, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, models.IntentUplift, output.Intent)
			assert.Equal(t, tt.wantResponse, output.Response)
			assert.Equal(t, tt.wantGenerated, output.Generated)
			assert.Contains(t, tt.gen.prompt, tt.wantTopic)
		})
	}
}

func TestFallbackCarriesUpliftMarker(t *testing.T) {
	assert.True(t, strings.Contains(strings.ToLower(signals.FallbackUplift), signals.UpliftMarker))
}
