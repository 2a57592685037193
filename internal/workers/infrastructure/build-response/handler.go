// internal/workers/infrastructure/build-response/handler.go
package buildresponse

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"

	"career-chat-workers/internal/common/camunda"
	apperrors "career-chat-workers/internal/common/errors"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/models"
)

const TaskType = "build-response"

var (
	ErrTemplateNotFound         = errors.New("TEMPLATE_NOT_FOUND")
	ErrTemplateValidationFailed = errors.New("RESPONSE_VALIDATION_FAILED")
)

//go:embed templates/chat-responses.json
var defaultTemplates []byte

type templateCacheEntry struct {
	template *TemplateDefinition
	loadedAt time.Time
}

type Handler struct {
	config *Config
	logger logger.Logger
	cache  map[string]*templateCacheEntry
	mu     sync.RWMutex
	now    func() time.Time
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
		cache:  make(map[string]*templateCacheEntry),
		now:    time.Now,
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
	if err := camunda.DecodeVariables(job, &input.Variables); err != nil {
		camunda.FailJob(client, job, fmt.Errorf("parse variables: %w", err), "PARSE_ERROR", 0, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	switch {
	case errors.Is(err, ErrTemplateNotFound):
		camunda.ThrowError(client, job, "TEMPLATE_NOT_FOUND", err.Error(), nil, h.logger)
	case errors.Is(err, ErrTemplateValidationFailed):
		camunda.ThrowError(client, job, string(apperrors.ErrCodeResponseValidationFailed), err.Error(),
			map[string]interface{}{"intent": input.Intent}, h.logger)
	case err != nil:
		camunda.FailJob(client, job, err, "RESPONSE_BUILD_ERROR", 0, h.logger)
	default:
		camunda.CompleteJob(client, job, output, h.logger)
	}
}

// Execute method for direct usage
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	templateID := input.TemplateID
	if templateID == "" {
		intent := input.Intent
		if intent == "" {
			intent = models.IntentGeneral
		}
		templateID = "chat-" + intent
	}

	template, err := h.loadTemplate(templateID)
	if err != nil {
		return nil, err
	}

	data := input.Variables
	if data == nil {
		data = map[string]interface{}{}
	}
	if err := h.validateData(template.Schema, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateValidationFailed, err)
	}

	responseData, ok := substituteTemplate(template.Template, data).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("template %s did not produce an object", templateID)
	}

	return &Output{Response: ResponsePayload{
		RequestID: input.RequestID,
		Status:    "success",
		Data:      responseData,
		Metadata: ResponseMetadata{
			Timestamp:  h.now().UTC().Format(time.RFC3339),
			Version:    h.config.AppVersion,
			TemplateID: templateID,
		},
	}}, nil
}

// substituteTemplate replaces every string of the form {{path.to.key}} with
// the value found in data. Missing values become null.
func substituteTemplate(tmpl interface{}, data map[string]interface{}) interface{} {
	switch v := tmpl.(type) {
	case string:
		if len(v) > 4 && strings.HasPrefix(v, "{{") && strings.HasSuffix(v, "}}") {
			return lookupNestedValue(data, strings.TrimSpace(v[2:len(v)-2]))
		}
		return v
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for k, child := range v {
			result[k] = substituteTemplate(child, data)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = substituteTemplate(item, data)
		}
		return result
	default:
		return v
	}
}

func lookupNestedValue(data map[string]interface{}, key string) interface{} {
	var current interface{} = data
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		if current, ok = m[part]; !ok {
			return nil
		}
	}
	return current
}

func (h *Handler) loadTemplate(id string) (*TemplateDefinition, error) {
	h.mu.RLock()
	if entry, ok := h.cache[id]; ok && time.Since(entry.loadedAt) < h.config.CacheTTL {
		h.mu.RUnlock()
		return entry.template, nil
	}
	h.mu.RUnlock()

	raw := defaultTemplates
	if h.config.TemplateRegistry != "" {
		b, err := os.ReadFile(h.config.TemplateRegistry)
		if err != nil {
			return nil, fmt.Errorf("read templates: %w", err)
		}
		raw = b
	}

	var registry struct {
		Templates []TemplateDefinition `json:"templates"`
	}
	if err := json.Unmarshal(raw, &registry); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	for i := range registry.Templates {
		t := &registry.Templates[i]
		if t.ID == id {
			h.mu.Lock()
			h.cache[id] = &templateCacheEntry{template: t, loadedAt: time.Now()}
			h.mu.Unlock()
			return t, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

func (h *Handler) validateData(schemaMap, data map[string]interface{}) error {
	if len(schemaMap) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schemaMap), gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}
	return nil
}
