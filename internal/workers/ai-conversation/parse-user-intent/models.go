// internal/workers/ai-conversation/parse-user-intent/models.go
package parseuserintent

import "career-chat-workers/internal/models"

type Input struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversationId"`
}

type Output struct {
	Intent          string             `json:"intent"`
	ExtractedData   models.ProfileData `json:"extractedData"`
	IsAccountAction bool               `json:"isAccountAction"`
	// Message is set only for account intents.
	Message string `json:"message,omitempty"`
}
