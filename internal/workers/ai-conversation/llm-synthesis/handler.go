// internal/workers/ai-conversation/llm-synthesis/handler.go
package llmsynthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/chat"
	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
)

const (
	TaskType = "llm-synthesis"
)

var ErrMissingQuestion = errors.New("MISSING_QUESTION")

type Handler struct {
	config      *Config
	provider    string
	synthesizer *chat.Synthesizer
	logger      logger.Logger
}

func NewHandler(config *Config, gen llm.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:      config,
		provider:    gen.Provider(),
		synthesizer: chat.NewSynthesizer(gen, config.HistoryLimit, config.Temperature),
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
		h.failJob(client, job, fmt.Errorf("parse input: %w", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		retries := int32(0)
		if errors.Is(err, llm.ErrLLMTimeout) || errors.Is(err, llm.ErrLLMSynthesisFailed) {
			retries = int32(h.config.MaxRetries)
			if job.Retries-1 < retries {
				retries = job.Retries - 1
			}
		}
		if retries < 0 {
			retries = 0
		}
		h.failJob(client, job, err, retries)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	question := strings.TrimSpace(input.StandaloneQuestion)
	if question == "" {
		question = strings.TrimSpace(input.Question)
	}
	if question == "" {
		return nil, ErrMissingQuestion
	}

	contextText := joinNonEmpty(input.ContextText, input.RealtimeContext)

	raw, err := h.synthesizer.Answer(ctx, question, contextText, input.Messages)
	if err != nil {
		return nil, err
	}

	h.logger.Info("LLM synthesis completed", map[string]interface{}{
		"provider":      h.provider,
		"responseBytes": len(raw),
		"historyTurns":  len(input.Messages),
	})

	return &Output{LLMResponse: raw, Provider: h.provider}, nil
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, retries int32) {
	errorCode := "UNKNOWN_ERROR"
	switch {
	case errors.Is(err, llm.ErrLLMTimeout):
		errorCode = "LLM_TIMEOUT"
	case errors.Is(err, llm.ErrLLMSynthesisFailed):
		errorCode = "LLM_SYNTHESIS_FAILED"
	case errors.Is(err, ErrMissingQuestion):
		errorCode = "MISSING_QUESTION"
	}
	camunda.FailJob(client, job, err, errorCode, retries, h.logger)
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
