// internal/workers/ai-conversation/uplift-response/handler.go
package upliftresponse

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/signals"
)

const TaskType = "uplift-response"

type Handler struct {
	config   *Config
	uplifter *signals.Uplifter
	logger   logger.Logger
}

func NewHandler(config *Config, gen llm.Generator, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		uplifter: signals.NewUplifter(gen),
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

	output, _ := h.execute(ctx, &input)
	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		topic = h.config.Topic
	}

	msg, generated := h.uplifter.Message(ctx, topic)
	if !generated {
		h.logger.Warn("uplift generation failed, using fallback message", map[string]interface{}{
			"conversationId": input.ConversationID,
		})
	}

	return &Output{
		Intent:    models.IntentUplift,
		Response:  msg,
		Generated: generated,
	}, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
