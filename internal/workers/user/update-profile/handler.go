// internal/workers/user/update-profile/handler.go
package updateprofile

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/store"
)

const TaskType = "update-profile"

type Input struct {
	User          map[string]interface{} `json:"user"`
	ExtractedData *models.ProfileData    `json:"extractedData"`
}

type Output struct {
	Message       string                 `json:"message"`
	UpdatedFields map[string]interface{} `json:"updatedFields"`
	UserID        string                 `json:"userId"`
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Users        models.UserRepository
	Logger       logger.Logger
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	accounts     *store.Accounts
	errorHandler *errors.ErrorHandler
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
		if opts.AppConfig != nil {
			if wc, ok := opts.AppConfig.Workers[TaskType]; ok {
				cfg.Enabled = wc.Enabled
				if wc.MaxJobsActive > 0 {
					cfg.MaxJobsActive = wc.MaxJobsActive
				}
				if wc.Timeout > 0 {
					cfg.Timeout = config.GetDuration(wc.Timeout)
				}
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Users == nil {
		return nil, fmt.Errorf("%s requires a user repository", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.With(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		logger:       log,
		accounts:     store.NewAccounts(opts.Users, log),
		errorHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"workflowKey": job.GetProcessInstanceKey(),
	})

	var input Input
	if err := camunda.DecodeVariables(job, &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewUserValidationError("No JSON data provided"))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) IsEnabled() bool { return h.config.Enabled }

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	payload := input.User
	if len(payload) == 0 && input.ExtractedData != nil {
		payload = store.ProfilePayload(*input.ExtractedData)
	}

	res, err := h.accounts.UpdateProfile(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &Output{
		Message:       res.Message,
		UpdatedFields: res.UpdatedFields,
		UserID:        res.User.ID,
	}, nil
}
