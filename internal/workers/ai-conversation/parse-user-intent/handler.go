// internal/workers/ai-conversation/parse-user-intent/handler.go
package parseuserintent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/intent"
)

const (
	TaskType = "parse-user-intent"
)

var ErrMissingQuestion = errors.New("MISSING_QUESTION")

type Handler struct {
	config   *Config
	detector *intent.Detector
	logger   logger.Logger
}

func NewHandler(config *Config, gen llm.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		detector: intent.NewDetector(gen),
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
		camunda.FailJob(client, job, fmt.Errorf("parse input: %w", err), "INVALID_INPUT", 0, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingQuestion):
			camunda.ThrowError(client, job, "MISSING_QUESTION", err.Error(), nil, h.logger)
		case errors.Is(err, llm.ErrLLMTimeout):
			camunda.FailJob(client, job, err, "LLM_TIMEOUT", retriesLeft(job, h.config.MaxRetries), h.logger)
		default:
			camunda.FailJob(client, job, err, "INTENT_PARSE_FAILED", 0, h.logger)
		}
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, ErrMissingQuestion
	}

	result, err := h.detector.Detect(ctx, question)
	if err != nil {
		// Only a timeout is worth a retry; anything else is treated as a
		// general question.
		if errors.Is(err, llm.ErrLLMTimeout) {
			return nil, err
		}
		h.logger.Warn("intent detection failed, assuming general", map[string]interface{}{
			"error": err.Error(),
		})
		result = intent.General()
	}

	output := &Output{
		Intent:          result.Intent,
		ExtractedData:   result.Data,
		IsAccountAction: result.IsAccountAction(),
	}
	if output.IsAccountAction {
		output.Message = result.Message()
	}
	if output.ExtractedData.Skills == nil {
		output.ExtractedData.Skills = []string{}
	}

	h.logger.Info("intent detected", map[string]interface{}{
		"intent":          output.Intent,
		"isAccountAction": output.IsAccountAction,
	})
	return output, nil
}

// retriesLeft never raises the broker's remaining budget.
func retriesLeft(job entities.Job, max int) int32 {
	r := job.Retries - 1
	if int32(max) < r {
		r = int32(max)
	}
	if r < 0 {
		r = 0
	}
	return r
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
