// internal/workers/ai-conversation/llm-synthesis/handler_test.go
package llmsynthesis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type generateRequest struct {
	Prompt  string `json:"prompt"`
	System  string `json:"system"`
	History []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"history"`
	Temperature float64 `json:"temperature"`
	Format      string  `json:"format"`
}

func createTestConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		MaxRetries:   1,
		Temperature:  0.7,
		HistoryLimit: 4,
	}
}

func newGateway(url string) llm.Generator {
	return llm.NewGatewayClient(config.GenAIConfig{BaseURL: url})
}

func createLLMAPIResponse(text string) string {
	data, _ := json.Marshal(map[string]string{"text": text})
	return string(data)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	answer := `{"summary":"Two fellowships are open.","sections":[],"links":[],"actions":[]}`

	tests := []struct {
		name            string
		input           *Input
		validateRequest func(t *testing.T, req generateRequest)
	}{
		{
			name: "context and realtime data in the system prompt",
			input: &Input{
				Question:        "Any fellowships for women in tech?",
				ContextText:     "Women in Tech Fellowship\nSix months, stipend included.",
				RealtimeContext: "Live events:\n- title: Grace Hopper India",
			},
			validateRequest: func(t *testing.T, req generateRequest) {
				assert.Equal(t, "Any fellowships for women in tech?", req.Prompt)
				assert.Contains(t, req.System, "You are an assistant answering based on the provided context")
				assert.Contains(t, req.System, "Women in Tech Fellowship")
				assert.Contains(t, req.System, "Grace Hopper India")
				assert.Equal(t, "json", req.Format)
				assert.Equal(t, 0.7, req.Temperature)
				assert.Empty(t, req.History)
			},
		},
		{
			name: "standalone question and history",
			input: &Input{
				Question:           "and the deadline?",
				StandaloneQuestion: "What is the deadline of the Women in Tech Fellowship?",
				Messages: []models.Message{
					{Type: models.MessageHuman, Content: "Any fellowships?"},
					{Type: models.MessageAI, Content: `{"summary":"The Women in Tech Fellowship is open.","sections":[],"links":[],"actions":[]}`},
				},
			},
			validateRequest: func(t *testing.T, req generateRequest) {
				assert.Equal(t, "What is the deadline of the Women in Tech Fellowship?", req.Prompt)
				require.Len(t, req.History, 2)
				assert.Equal(t, "user", req.History[0].Role)
				assert.Equal(t, "assistant", req.History[1].Role)
				assert.Contains(t, req.History[1].Content, "The Women in Tech Fellowship is open.")
				assert.NotContains(t, req.History[1].Content, `"sections"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "POST", r.Method)
				assert.Equal(t, "/api/ai/generate", r.URL.Path)

				var req generateRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				tt.validateRequest(t, req)

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(createLLMAPIResponse(answer)))
			}))
			defer server.Close()

			handler := NewHandler(createTestConfig(), newGateway(server.URL), logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, answer, output.LLMResponse)
			assert.Equal(t, "gateway", output.Provider)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("missing question", func(t *testing.T) {
		handler := NewHandler(createTestConfig(), newGateway("http://127.0.0.1:1"), logger.NewTestLogger(t))

		_, err := handler.Execute(context.Background(), &Input{})

		assert.True(t, errors.Is(err, ErrMissingQuestion))
	})

	t.Run("empty response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(createLLMAPIResponse("   ")))
		}))
		defer server.Close()
		handler := NewHandler(createTestConfig(), newGateway(server.URL), logger.NewTestLogger(t))

		_, err := handler.Execute(context.Background(), &Input{Question: "hi"})

		assert.True(t, errors.Is(err, llm.ErrLLMSynthesisFailed))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		defer server.Close()
		handler := NewHandler(createTestConfig(), newGateway(server.URL), logger.NewTestLogger(t))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := handler.Execute(ctx, &Input{Question: "hi"})

		assert.True(t, errors.Is(err, llm.ErrLLMTimeout))
	})
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(
		config.WorkerConfig{Timeout: 45000, MaxRetries: 2},
		config.GenAIConfig{Temperature: 0.3},
		config.ConversationConfig{HistoryLimit: 6},
	)

	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 0.3, cfg.Temperature)
	assert.Equal(t, 6, cfg.HistoryLimit)

	defaults := LoadConfig(config.WorkerConfig{}, config.GenAIConfig{}, config.ConversationConfig{})
	assert.Equal(t, 30*time.Second, defaults.Timeout)
	assert.Equal(t, 10, defaults.HistoryLimit)
}
