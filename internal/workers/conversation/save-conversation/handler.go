// internal/workers/conversation/save-conversation/handler.go
package saveconversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
)

const TaskType = "save-conversation"

type Handler struct {
	config        *Config
	conversations models.ConversationRepository
	errorHandler  *errors.ErrorHandler
	logger        logger.Logger
}

func NewHandler(config *Config, conversations models.ConversationRepository, log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:        config,
		conversations: conversations,
		errorHandler:  errors.NewErrorHandler(l),
		logger:        l,
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
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}
	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, errors.NewMissingQuestionError()
	}
	intent := input.Intent
	if intent == "" {
		intent = models.IntentGeneral
	}

	conv, err := h.conversations.Append(ctx, input.ConversationID,
		models.Message{Type: models.MessageHuman, Content: input.Question},
		models.Message{Type: models.MessageAI, Content: input.AIMessage, Intent: intent},
	)
	if err != nil {
		return nil, err
	}

	h.logger.Info("conversation turn saved", map[string]interface{}{
		"conversationId": conv.ID,
		"intent":         intent,
		"messages":       len(conv.Messages),
	})

	return &Output{ConversationID: conv.ID, Messages: conv.Messages}, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
