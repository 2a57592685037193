// internal/workers/conversation/save-conversation/models.go
package saveconversation

import "career-chat-workers/internal/models"

type Input struct {
	ConversationID string `json:"conversationId"`
	Question       string `json:"question"`
	// AIMessage is the serialized structured answer, or the uplift text.
	AIMessage string `json:"aiMessage"`
	Intent    string `json:"intent"`
}

type Output struct {
	ConversationID string           `json:"conversationId"`
	Messages       []models.Message `json:"messages"`
}
