// internal/intent/intent.go
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/models"
	"career-chat-workers/internal/structuring"
)

const promptTemplate = `You are an intelligent assistant that classifies user intent and extracts structured data.
Return *only* a strict JSON object in the format below. DO NOT add any explanation.

Expected format:
{
  "intent": "signup" | "update_profile" | "general",
  "data": {
    "name": string | null,
    "email": string | null,
    "phone": string | null,
    "skills": [string] | [],
    "bio": string | null
  }
}

Analyze this text and return the result in the format above:
"""%s"""
`

// Result is the classified intent and any profile data found in the message.
type Result struct {
	Intent string             `json:"intent"`
	Data   models.ProfileData `json:"data"`
}

// General is the result used whenever classification fails.
func General() Result {
	return Result{Intent: models.IntentGeneral, Data: models.ProfileData{Skills: []string{}}}
}

// IsAccountAction reports whether the intent short-circuits the chat turn.
func (r Result) IsAccountAction() bool {
	return r.Intent == models.IntentSignup || r.Intent == models.IntentUpdateProfile
}

// Message is the reply given for account intents, e.g. "Intent identified as Update Profile".
func (r Result) Message() string {
	return "Intent identified as " + Label(r.Intent)
}

// Label title-cases an intent name: "update_profile" becomes "Update Profile".
func Label(intent string) string {
	words := strings.Fields(strings.ReplaceAll(intent, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// BuildPrompt renders the classification prompt for userInput.
func BuildPrompt(userInput string) string {
	return fmt.Sprintf(promptTemplate, userInput)
}

// Parse extracts the intent object from a model response. Anything that is
// not a JSON object with a known intent yields General().
func Parse(response string) Result {
	span, found := structuring.EmbeddedObject(response)
	if !found {
		return General()
	}

	var res Result
	if err := json.Unmarshal([]byte(span), &res); err != nil {
		return General()
	}

	switch res.Intent {
	case models.IntentSignup, models.IntentUpdateProfile, models.IntentGeneral:
	default:
		return General()
	}
	if res.Data.Skills == nil {
		res.Data.Skills = []string{}
	}
	return res
}

// Detector classifies messages with a model.
type Detector struct {
	gen llm.Generator
}

func NewDetector(gen llm.Generator) *Detector {
	return &Detector{gen: gen}
}

// Detect classifies text. On generation failure it returns General() along
// with the error so callers can log and carry on.
func (d *Detector) Detect(ctx context.Context, text string) (Result, error) {
	temperature := 0.2
	req := llm.Prompt(BuildPrompt(text))
	req.Temperature = &temperature
	req.JSON = true

	out, err := d.gen.Generate(ctx, req)
	if err != nil {
		return General(), err
	}
	return Parse(out), nil
}
