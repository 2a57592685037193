// internal/workers/ai-conversation/retrieve-context/handler_test.go
package retrievecontext

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/retrieval"
)

type stubRetriever struct {
	docs    []retrieval.Document
	err     error
	queries []string
}

func (s *stubRetriever) Retrieve(_ context.Context, query string) ([]retrieval.Document, error) {
	s.queries = append(s.queries, query)
	return s.docs, s.err
}

func TestHandler_Execute(t *testing.T) {
	docs := []retrieval.Document{
		{ID: "1", Title: "Women in Tech Fellowship", Content: "A six month fellowship.", URL: "https://example.org/fellowship"},
	}

	tests := []struct {
		name      string
		input     *Input
		docs      []retrieval.Document
		wantQuery string
		wantCount int
	}{
		{
			name:      "uses the standalone question when present",
			input:     &Input{Question: "and the deadline?", StandaloneQuestion: "What is the deadline of the Women in Tech Fellowship?"},
			docs:      docs,
			wantQuery: "What is the deadline of the Women in Tech Fellowship?",
			wantCount: 1,
		},
		{
			name:      "falls back to the raw question",
			input:     &Input{Question: "  fellowships for women  "},
			docs:      docs,
			wantQuery: "fellowships for women",
			wantCount: 1,
		},
		{
			name:      "no documents",
			input:     &Input{Question: "anything"},
			wantQuery: "anything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &stubRetriever{docs: tt.docs}
			handler := NewHandler(LoadConfig(config.WorkerConfig{}), r, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantQuery}, r.queries)
			assert.Equal(t, tt.wantCount, output.RetrievedCount)
			assert.NotNil(t, output.Documents)
			assert.Equal(t, retrieval.FormatContext(tt.docs), output.ContextText)
		})
	}
}

func TestHandler_Execute_RetrievalFailure(t *testing.T) {
	r := &stubRetriever{err: fmt.Errorf("%w: connection refused", retrieval.ErrRetrievalFailed)}
	handler := NewHandler(LoadConfig(config.WorkerConfig{}), r, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Question: "jobs"})

	assert.True(t, errors.Is(err, retrieval.ErrRetrievalFailed))
}
