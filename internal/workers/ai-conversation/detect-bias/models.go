// internal/workers/ai-conversation/detect-bias/models.go
package detectbias

import "career-chat-workers/internal/signals"

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	BiasAnalysis signals.BiasAnalysis `json:"biasAnalysis"`
}
