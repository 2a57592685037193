// internal/workers/conversation/load-conversation/handler.go
package loadconversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/chat"
	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
)

const TaskType = "load-conversation"

type Handler struct {
	config        *Config
	conversations models.ConversationRepository
	synthesizer   *chat.Synthesizer
	errorHandler  *errors.ErrorHandler
	logger        logger.Logger
}

// NewHandler builds the handler. gen may be nil, in which case follow-up
// questions are passed on unchanged.
func NewHandler(config *Config, conversations models.ConversationRepository, gen llm.Generator, log logger.Logger) *Handler {
	h := &Handler{
		config:        config,
		conversations: conversations,
		logger:        log.With(map[string]interface{}{"taskType": TaskType}),
	}
	h.errorHandler = errors.NewErrorHandler(h.logger)
	if gen != nil {
		h.synthesizer = chat.NewSynthesizer(gen, config.HistoryLimit, 0)
	}
	return h
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
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, errors.NewMissingQuestionError()
	}

	var (
		conv    *models.Conversation
		created bool
		err     error
	)
	if id := strings.TrimSpace(input.ConversationID); id != "" {
		conv, err = h.conversations.Get(ctx, id)
	} else {
		conv, err = h.conversations.Create(ctx)
		created = true
	}
	if err != nil {
		return nil, err
	}

	messages := conv.Messages
	if messages == nil {
		messages = []models.Message{}
	}

	standalone := question
	if h.synthesizer != nil && len(messages) > 0 {
		standalone = h.synthesizer.Standalone(ctx, question, messages)
	}

	h.logger.Info("conversation loaded", map[string]interface{}{
		"conversationId": conv.ID,
		"created":        created,
		"messages":       len(messages),
		"rephrased":      standalone != question,
	})

	return &Output{
		ConversationID:     conv.ID,
		Created:            created,
		Messages:           messages,
		StandaloneQuestion: standalone,
	}, nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
