// internal/workers/ai-conversation/retrieve-context/models.go
package retrievecontext

import "career-chat-workers/internal/retrieval"

type Input struct {
	Question string `json:"question"`
	// StandaloneQuestion is preferred when a rephrasing step ran first.
	StandaloneQuestion string `json:"standaloneQuestion"`
}

type Output struct {
	Documents      []retrieval.Document `json:"documents"`
	RetrievedCount int                  `json:"retrievedCount"`
	ContextText    string               `json:"contextText"`
}
