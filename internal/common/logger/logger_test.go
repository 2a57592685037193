// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"taskType": "structure-answer"})

	log.Info("structured", map[string]interface{}{"tier": "direct", "cause": errors.New("boom")})
	log.WithError(errors.New("failed")).Warn("degraded", nil)

	entries := logs.All()
	assert.Len(t, entries, 2)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "structure-answer", ctx["taskType"])
	assert.Equal(t, "direct", ctx["tier"])
	assert.Equal(t, "boom", ctx["cause"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "failed", entries[1].ContextMap()["error"])
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json", "stderr")
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.Debug("x", nil)
		log.WithFields(map[string]interface{}{"a": 1}).Error("y", nil)
	})
}
