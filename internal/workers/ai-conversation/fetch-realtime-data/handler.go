// internal/workers/ai-conversation/fetch-realtime-data/handler.go
package fetchrealtimedata

import (
	"context"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/realtime"
	"career-chat-workers/internal/structuring"
)

const (
	TaskType = "fetch-realtime-data"
)

// LiveData is satisfied by *realtime.Fetcher.
type LiveData interface {
	Enabled() bool
	FetchAll(ctx context.Context, sources []models.RealtimeSource) map[models.RealtimeSource][]realtime.Item
}

type Handler struct {
	config  *Config
	fetcher LiveData
	logger  logger.Logger
}

func NewHandler(config *Config, fetcher LiveData, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		fetcher: fetcher,
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
		camunda.FailJob(client, job, fmt.Errorf("parse input: %w", err), "PARSE_ERROR", 0, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		if errors.Is(err, realtime.ErrUnknownSource) {
			camunda.ThrowError(client, job, "INVALID_REALTIME_SOURCE", err.Error(), nil, h.logger)
			return
		}
		camunda.FailJob(client, job, err, "REALTIME_FETCH_FAILED", 0, h.logger)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{
		Enabled:      h.fetcher.Enabled(),
		Sources:      []string{},
		RealtimeData: map[string][]realtime.Item{},
	}

	sources, err := h.selectSources(input)
	if err != nil {
		return nil, err
	}
	for _, s := range sources {
		output.Sources = append(output.Sources, string(s))
	}

	// Outside production no third-party feed is called.
	if !output.Enabled || len(sources) == 0 {
		h.logger.Info("realtime data skipped", map[string]interface{}{
			"enabled": output.Enabled,
			"sources": output.Sources,
		})
		return output, nil
	}

	data := h.fetcher.FetchAll(ctx, sources)
	total := 0
	for src, items := range data {
		output.RealtimeData[string(src)] = items
		total += len(items)
	}
	output.ContextText = realtime.FormatContext(data)

	h.logger.Info("realtime data fetched", map[string]interface{}{
		"sources": output.Sources,
		"items":   total,
	})
	return output, nil
}

func (h *Handler) selectSources(input *Input) ([]models.RealtimeSource, error) {
	if len(input.Sources) > 0 {
		return realtime.ParseSources(input.Sources)
	}
	return realtime.SourcesFor(structuring.Classify(input.Question)), nil
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
