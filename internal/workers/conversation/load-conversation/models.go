// internal/workers/conversation/load-conversation/models.go
package loadconversation

import "career-chat-workers/internal/models"

type Input struct {
	ConversationID string `json:"conversationId"`
	Question       string `json:"question"`
}

type Output struct {
	ConversationID string           `json:"conversationId"`
	Created        bool             `json:"conversationCreated"`
	Messages       []models.Message `json:"messages"`
	// StandaloneQuestion equals the question unless history required a rephrase.
	StandaloneQuestion string `json:"standaloneQuestion"`
}
