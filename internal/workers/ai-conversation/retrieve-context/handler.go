// internal/workers/ai-conversation/retrieve-context/handler.go
package retrievecontext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/retrieval"
)

const (
	TaskType = "retrieve-context"
)

// Retriever is satisfied by *retrieval.Retriever.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]retrieval.Document, error)
}

type Handler struct {
	config    *Config
	retriever Retriever
	logger    logger.Logger
}

func NewHandler(config *Config, retriever Retriever, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		retriever: retriever,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		camunda.FailJob(client, job, fmt.Errorf("parse input: %w", err), "PARSE_ERROR", 0, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		retries := int32(0)
		if errors.Is(err, retrieval.ErrRetrievalFailed) {
			retries = int32(h.config.MaxRetries)
			if job.Retries-1 < retries {
				retries = job.Retries - 1
			}
		}
		if retries < 0 {
			retries = 0
		}
		camunda.FailJob(client, job, err, "RETRIEVAL_FAILED", retries, h.logger)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	query := strings.TrimSpace(input.StandaloneQuestion)
	if query == "" {
		query = strings.TrimSpace(input.Question)
	}

	docs, err := h.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []retrieval.Document{}
	}

	h.logger.Info("context retrieved", map[string]interface{}{
		"documents": len(docs),
	})

	return &Output{
		Documents:      docs,
		RetrievedCount: len(docs),
		ContextText:    retrieval.FormatContext(docs),
	}, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
