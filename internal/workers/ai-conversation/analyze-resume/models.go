// internal/workers/ai-conversation/analyze-resume/models.go
package analyzeresume

import "career-chat-workers/internal/resume"

type Input struct {
	ResumeText string `json:"resumeText"`
}

type Output struct {
	Analysis resume.Analysis `json:"analysis"`
	// Structured is false when the model reply could not be decoded and
	// only Analysis.RawResponse is set.
	Structured bool `json:"structured"`
}
