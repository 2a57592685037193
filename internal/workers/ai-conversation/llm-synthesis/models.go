// internal/workers/ai-conversation/llm-synthesis/models.go
package llmsynthesis

import "career-chat-workers/internal/models"

type Input struct {
	Question           string           `json:"question"`
	StandaloneQuestion string           `json:"standaloneQuestion"`
	Messages           []models.Message `json:"messages"`
	ContextText        string           `json:"contextText"`
	RealtimeContext    string           `json:"realtimeContext"`
}

type Output struct {
	LLMResponse string `json:"llmResponse"`
	Provider    string `json:"llmProvider"`
}
