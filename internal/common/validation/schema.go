// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	emailPattern    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
)

// SignUpSchema describes the payload accepted by the sign-up route and worker.
const SignUpSchema = `{
  "type": "object",
  "properties": {
    "name":   {"type": "string"},
    "email":  {"type": "string"},
    "phone":  {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "bio":    {"type": "string"}
  }
}`

// UpdateProfileSchema describes the payload accepted by profile updates.
const UpdateProfileSchema = `{
  "type": "object",
  "required": ["email"],
  "properties": {
    "email":  {"type": "string"},
    "name":   {"type": "string"},
    "phone":  {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "bio":    {"type": "string"}
  }
}`

// AskSchema describes the chat question payload.
const AskSchema = `{
  "type": "object",
  "required": ["question"],
  "properties": {
    "question":        {"type": "string"},
    "conversation_id": {"type": ["string", "null"]}
  }
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var (
	schemaMu    sync.RWMutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func compiled(schemaJSON string) (*gojsonschema.Schema, error) {
	schemaMu.RLock()
	s, ok := schemaCache[schemaJSON]
	schemaMu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	schemaMu.Lock()
	schemaCache[schemaJSON] = s
	schemaMu.Unlock()
	return s, nil
}

// ValidatePayload checks payload (a decoded JSON value or Go struct) against schemaJSON.
func ValidatePayload(schemaJSON string, payload interface{}) (*ValidationResult, error) {
	schema, err := compiled(schemaJSON)
	if err != nil {
		return nil, err
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	out := &ValidationResult{Valid: res.Valid()}
	for _, e := range res.Errors() {
		field := e.Field()
		if field == "(root)" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out, nil
}

// ValidateTaskType checks the kebab-case naming used for Zeebe task types.
func ValidateTaskType(taskType string) error {
	if !taskTypePattern.MatchString(taskType) {
		return fmt.Errorf("task type must be lower kebab-case (e.g. structure-answer), got %q", taskType)
	}
	return nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			return true
		}
	}
	return false
}

// ValidateEmail applies the loose address check used at sign-up: something,
// an @, something, a dot, something.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
