// internal/workers/ai-conversation/fetch-realtime-data/models.go
package fetchrealtimedata

import "career-chat-workers/internal/realtime"

type Input struct {
	Question string `json:"question"`
	// Sources restricts the feeds queried; empty selects them from the question.
	Sources []string `json:"sources"`
}

type Output struct {
	Enabled      bool                       `json:"realtimeEnabled"`
	Sources      []string                   `json:"realtimeSources"`
	RealtimeData map[string][]realtime.Item `json:"realtimeData"`
	ContextText  string                     `json:"realtimeContext"`
}
