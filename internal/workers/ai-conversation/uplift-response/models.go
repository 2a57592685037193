// internal/workers/ai-conversation/uplift-response/models.go
package upliftresponse

type Input struct {
	ConversationID string `json:"conversationId"`
	// Topic overrides the configured topic when set.
	Topic string `json:"topic"`
}

type Output struct {
	Intent    string `json:"intent"`
	Response  string `json:"response"`
	Generated bool   `json:"generated"`
}
