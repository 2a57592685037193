// internal/common/observability/observability_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoop_RecordsNothingAndSpans(t *testing.T) {
	o := NewNoop()

	ctx, span := o.StartSpan(context.Background(), "stage")
	defer span.End()

	assert.NotNil(t, ctx)
	o.RecordTurn(ctx, "general")
	o.RecordStageDuration(ctx, "retrieve", 10*time.Millisecond)
	o.Shutdown()
}

func TestNew_WithoutJaeger(t *testing.T) {
	o := New("career-chat-test", "")
	defer o.Shutdown()

	ctx, span := o.StartSpan(context.Background(), "turn")
	span.End()

	o.RecordTurn(ctx, "uplift")
	assert.NotNil(t, o.meterProvider)
}
