// internal/workers/ai-conversation/detect-sentiment/handler.go
package detectsentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/signals"
)

const TaskType = "detect-sentiment"

var ErrMissingQuestion = errors.New("MISSING_QUESTION")

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		camunda.FailJob(client, job, fmt.Errorf("parse input: %w", err), "INVALID_INPUT", 0, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.ThrowError(client, job, "MISSING_QUESTION", err.Error(), nil, h.logger)
		return
	}
	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, ErrMissingQuestion
	}

	sentiment := signals.DetectSentiment(input.Question)
	conv := &models.Conversation{Messages: input.Messages}

	output := &Output{
		Sentiment:   string(sentiment),
		Polarity:    signals.Polarity(input.Question),
		NeedsUplift: signals.NeedsUplift(sentiment, conv),
	}

	h.logger.Info("sentiment detected", map[string]interface{}{
		"sentiment":   output.Sentiment,
		"needsUplift": output.NeedsUplift,
	})
	return output, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
