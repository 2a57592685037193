// internal/workers/ai-conversation/detect-sentiment/models.go
package detectsentiment

import "career-chat-workers/internal/models"

type Input struct {
	Question string `json:"question"`
	// Messages is the conversation history loaded before this task.
	Messages []models.Message `json:"messages"`
}

type Output struct {
	Sentiment   string  `json:"sentiment"`
	Polarity    float64 `json:"polarity"`
	NeedsUplift bool    `json:"needsUplift"`
}
