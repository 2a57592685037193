// internal/structuring/validator.go
package structuring

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"career-chat-workers/internal/models"
)

// answerSchema is the fast-path acceptance check. It is intentionally looser
// than StructuredAnswer: actions are optional.
const answerSchema = `{
	"type": "object",
	"required": ["summary", "sections", "links"],
	"properties": {
		"sections": {"type": "array"}
	}
}`

var answerSchemaLoader = gojsonschema.NewStringLoader(answerSchema)

// Validator checks candidate documents against answerSchema.
type Validator struct {
	schema *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(answerSchemaLoader)
	if err != nil {
		return nil, err
	}
	return &Validator{schema: schema}, nil
}

// IsValid reports whether candidate is a mapping with summary, sections
// and links keys and an array-valued sections.
func (v *Validator) IsValid(candidate interface{}) bool {
	if _, ok := candidate.(map[string]interface{}); !ok {
		return false
	}
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(candidate))
	if err != nil {
		return false
	}
	return result.Valid()
}

// Parsed is the outcome of checking a candidate: either a typed answer
// (Valid) or nothing.
type Parsed struct {
	Answer models.StructuredAnswer
	Valid  bool
}

// Check validates candidate and converts it into a StructuredAnswer. A
// candidate that passes IsValid but cannot be represented as the typed
// document (wrong field types, a section without content lines) is Invalid.
func (v *Validator) Check(candidate interface{}) Parsed {
	if !v.IsValid(candidate) {
		return Parsed{}
	}

	raw, err := json.Marshal(candidate)
	if err != nil {
		return Parsed{}
	}
	var answer models.StructuredAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		return Parsed{}
	}
	for _, s := range answer.Sections {
		if len(s.Content) == 0 {
			return Parsed{}
		}
	}
	answer.Normalize()
	return Parsed{Answer: answer, Valid: true}
}

// tryParse decodes text as a JSON object.
func tryParse(text string) (map[string]interface{}, bool) {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text), &out); err != nil || out == nil {
		return nil, false
	}
	return out, true
}
