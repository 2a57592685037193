// internal/workers/ai-conversation/analyze-resume/handler.go
package analyzeresume

import (
	"context"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/resume"
)

const (
	TaskType = "analyze-resume"
)

type Handler struct {
	config   *Config
	analyzer *resume.Analyzer
	logger   logger.Logger
}

func NewHandler(config *Config, gen llm.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		analyzer: resume.NewAnalyzer(gen, config.MaxInputBytes),
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
		case errors.Is(err, resume.ErrMissingText):
			camunda.ThrowError(client, job, "MISSING_RESUME_TEXT", err.Error(), nil, h.logger)
		case errors.Is(err, resume.ErrTooLarge):
			camunda.ThrowError(client, job, "RESUME_TOO_LARGE", err.Error(), nil, h.logger)
		case errors.Is(err, llm.ErrLLMTimeout):
			camunda.FailJob(client, job, err, "LLM_TIMEOUT", retriesLeft(job, h.config.MaxRetries), h.logger)
		default:
			camunda.FailJob(client, job, err, "LLM_SYNTHESIS_FAILED", retriesLeft(job, h.config.MaxRetries), h.logger)
		}
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	analysis, err := h.analyzer.Analyze(ctx, input.ResumeText)
	if err != nil {
		return nil, err
	}

	output := &Output{Analysis: *analysis, Structured: analysis.RawResponse == ""}
	h.logger.Info("resume analyzed", map[string]interface{}{
		"structured": output.Structured,
		"skills":     len(analysis.Skills),
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
