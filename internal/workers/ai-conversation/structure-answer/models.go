// internal/workers/ai-conversation/structure-answer/models.go
package structureanswer

import "career-chat-workers/internal/models"

type Input struct {
	LLMResponse string `json:"llmResponse"`
}

type Output struct {
	Structured models.StructuredAnswer `json:"structured"`
	Rendered   string                  `json:"rendered"`
	// AIMessage is the serialized document persisted as the AI turn.
	AIMessage string `json:"aiMessage"`
	Tier      string `json:"structuringTier"`
	Domain    string `json:"structuringDomain"`
}
