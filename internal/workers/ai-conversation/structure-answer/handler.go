// internal/workers/ai-conversation/structure-answer/handler.go
package structureanswer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/metrics"
	"career-chat-workers/internal/structuring"
)

const TaskType = "structure-answer"

type Handler struct {
	config     *Config
	structurer *structuring.Structurer
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	s, err := structuring.New(structuring.WithMaxInputBytes(config.MaxInputBytes))
	if err != nil {
		return nil, fmt.Errorf("build structurer: %w", err)
	}
	return &Handler{
		config:     config,
		structurer: s,
		logger:     log.With(map[string]interface{}{"taskType": TaskType}),
	}, nil
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

	output, err := h.execute(context.Background(), &input)
	if err != nil {
		camunda.FailJob(client, job, err, "INTERNAL_ERROR", 0, h.logger)
		return
	}
	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	result := h.structurer.Structure(input.LLMResponse)
	metrics.StructuringResults.WithLabelValues(string(result.Tier), string(result.Domain)).Inc()

	fields := map[string]interface{}{
		"tier":     result.Tier,
		"domain":   result.Domain,
		"sections": len(result.Answer.Sections),
		"links":    len(result.Answer.Links),
	}
	if result.Err != nil {
		fields["error"] = result.Err.Error()
		fields["inputBytes"] = len(input.LLMResponse)
		h.logger.Warn("answer too large to structure, summarized", fields)
	} else {
		h.logger.Info("answer structured", fields)
	}

	data, err := json.Marshal(result.Answer)
	if err != nil {
		return nil, fmt.Errorf("encode structured answer: %w", err)
	}

	return &Output{
		Structured: result.Answer,
		Rendered:   structuring.Render(result.Answer),
		AIMessage:  string(data),
		Tier:       string(result.Tier),
		Domain:     string(result.Domain),
	}, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
