// internal/workers/ai-conversation/detect-bias/handler.go
package detectbias

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/signals"
)

const TaskType = "detect-bias"

type Handler struct {
	config   *Config
	detector *signals.BiasDetector
	logger   logger.Logger
}

func NewHandler(config *Config, gen llm.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		detector: signals.NewBiasDetector(gen),
		logger:   log.With(map[string]interface{}{"taskType": TaskType}),
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

	// Bias analysis never fails a turn; model errors come back as text.
	output, _ := h.execute(ctx, &input)
	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	analysis := h.detector.Analyze(ctx, input.Question)

	h.logger.Info("bias analysis completed", map[string]interface{}{
		"biased":       analysis.NLPBased.Biased,
		"triggerWords": analysis.NLPBased.TriggerWords,
	})
	return &Output{BiasAnalysis: analysis}, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
