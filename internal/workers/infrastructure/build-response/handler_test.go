// internal/workers/infrastructure/build-response/handler_test.go
package buildresponse

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, cfg *Config) *Handler {
	if cfg == nil {
		cfg = &Config{CacheTTL: 5 * time.Minute, AppVersion: "1.0.0", Timeout: time.Second}
	}
	h := NewHandler(cfg, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }
	return h
}

func structuredDoc() map[string]interface{} {
	return map[string]interface{}{
		"summary":  "Two openings match.",
		"sections": []interface{}{map[string]interface{}{"title": "Job Details", "content": []interface{}{"Go Engineer"}, "icon": "briefcase"}},
		"links":    []interface{}{},
		"actions":  []interface{}{},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		wantID   string
		wantData map[string]interface{}
	}{
		{
			name: "general turn",
			input: &Input{
				Intent: "general",
				Variables: map[string]interface{}{
					"conversationId": "c-1",
					"rendered":       "Two openings match.",
					"structured":     structuredDoc(),
					"biasAnalysis":   map[string]interface{}{"nlp_based": map[string]interface{}{"biased": false}, "gemini_based": "neutral"},
					"messages":       []interface{}{},
					"llmResponse":    "ignored",
				},
			},
			wantID: "chat-general",
			wantData: map[string]interface{}{
				"intent":          "general",
				"conversation_id": "c-1",
				"response":        "Two openings match.",
				"structured":      structuredDoc(),
				"rendered":        "Two openings match.",
				"bias_analysis":   map[string]interface{}{"nlp_based": map[string]interface{}{"biased": false}, "gemini_based": "neutral"},
				"messages":        []interface{}{},
			},
		},
		{
			name: "uplift turn without sentiment",
			input: &Input{
				Intent: "uplift",
				Variables: map[string]interface{}{
					"conversationId": "c-2",
					"response":       "Keep believing in yourself.",
				},
			},
			wantID: "chat-uplift",
			wantData: map[string]interface{}{
				"intent":          "uplift",
				"conversation_id": "c-2",
				"response":        "Keep believing in yourself.",
				"sentiment":       nil,
				"messages":        nil,
			},
		},
		{
			name: "signup short-circuit",
			input: &Input{
				Intent: "signup",
				Variables: map[string]interface{}{
					"message":       "Intent identified as Signup",
					"extractedData": map[string]interface{}{"name": "Ada"},
				},
			},
			wantID: "chat-signup",
			wantData: map[string]interface{}{
				"intent":          "signup",
				"conversation_id": nil,
				"message":         "Intent identified as Signup",
				"extracted_data":  map[string]interface{}{"name": "Ada"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, nil)

			out, err := h.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, "success", out.Response.Status)
			assert.Equal(t, tt.wantData, out.Response.Data)
			assert.Equal(t, tt.wantID, out.Response.Metadata.TemplateID)
			assert.Equal(t, "1.0.0", out.Response.Metadata.Version)
			assert.Equal(t, "2025-03-04T05:06:07Z", out.Response.Metadata.Timestamp)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		wantErr error
	}{
		{
			name:    "unknown intent",
			input:   &Input{Intent: "smalltalk"},
			wantErr: ErrTemplateNotFound,
		},
		{
			name:    "general turn without structured answer",
			input:   &Input{Intent: "general", Variables: map[string]interface{}{"conversationId": "c-1", "rendered": "x"}},
			wantErr: ErrTemplateValidationFailed,
		},
		{
			name:    "structured answer missing keys",
			input:   &Input{Variables: map[string]interface{}{"conversationId": "c-1", "rendered": "x", "structured": map[string]interface{}{"summary": "x"}}},
			wantErr: ErrTemplateValidationFailed,
		},
		{
			name:    "uplift with empty message",
			input:   &Input{Intent: "uplift", Variables: map[string]interface{}{"conversationId": "c-2", "response": ""}},
			wantErr: ErrTemplateValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := createTestHandler(t, nil).Execute(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ==========================
// Template Registry Tests
// ==========================

func TestHandler_TemplateRegistryFile(t *testing.T) {
	registry := map[string]interface{}{
		"templates": []TemplateDefinition{{
			ID:       "custom",
			Template: map[string]interface{}{"answer": "{{result.text}}", "static": "v", "list": []interface{}{"{{result.text}}"}},
		}},
	}
	raw, err := json.Marshal(registry)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	h := createTestHandler(t, &Config{TemplateRegistry: path, CacheTTL: time.Minute})
	out, err := h.Execute(context.Background(), &Input{
		TemplateID: "custom",
		RequestID:  "req-1",
		Variables:  map[string]interface{}{"result": map[string]interface{}{"text": "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"answer": "hello", "static": "v", "list": []interface{}{"hello"}}, out.Response.Data)
	assert.Equal(t, "req-1", out.Response.RequestID)

	// served from cache once the file is gone
	require.NoError(t, os.Remove(path))
	_, err = h.Execute(context.Background(), &Input{TemplateID: "custom"})
	assert.NoError(t, err)

	_, err = h.Execute(context.Background(), &Input{TemplateID: "other"})
	assert.Error(t, err)
}

func TestLookupNestedValue(t *testing.T) {
	data := map[string]interface{}{
		"a": map[string]interface{}{"b": map[string]interface{}{"c": 3}},
		"s": "str",
	}
	assert.Equal(t, 3, lookupNestedValue(data, "a.b.c"))
	assert.Nil(t, lookupNestedValue(data, "a.x"))
	assert.Nil(t, lookupNestedValue(data, "s.inner"))
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.WorkerConfig{Timeout: 1500}, config.AppConfig{Version: "2.1.0"})
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "2.1.0", cfg.AppVersion)
	assert.Empty(t, cfg.TemplateRegistry)
}
