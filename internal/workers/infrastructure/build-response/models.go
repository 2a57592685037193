// internal/workers/infrastructure/build-response/models.go
package buildresponse

// Input selects the template either explicitly or by intent. Variables holds
// every process variable and feeds placeholder substitution.
type Input struct {
	TemplateID string                 `json:"templateId"`
	Intent     string                 `json:"intent"`
	RequestID  string                 `json:"requestId"`
	Variables  map[string]interface{} `json:"-"`
}

type Output struct {
	Response ResponsePayload `json:"response"`
}

type ResponsePayload struct {
	RequestID string                 `json:"requestId,omitempty"`
	Status    string                 `json:"status"`
	Data      map[string]interface{} `json:"data"`
	Metadata  ResponseMetadata       `json:"metadata"`
}

type ResponseMetadata struct {
	Timestamp  string `json:"timestamp"` // ISO 8601
	Version    string `json:"version"`
	TemplateID string `json:"templateId"`
}

type TemplateDefinition struct {
	ID       string                 `json:"id"`
	Intent   string                 `json:"intent"`
	Schema   map[string]interface{} `json:"schema"`
	Template map[string]interface{} `json:"template"`
	Version  string                 `json:"version"`
}
