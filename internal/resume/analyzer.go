// internal/resume/analyzer.go
package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"career-chat-workers/internal/common/llm"
	"career-chat-workers/internal/structuring"
)

var (
	ErrMissingText = errors.New("MISSING_RESUME_TEXT")
	ErrTooLarge    = errors.New("RESUME_TOO_LARGE")
)

const DefaultMaxInputBytes = 32 * 1024

const promptTemplate = `You are an AI career mentor. Analyze the following resume content:

%s

Based on the resume, provide:
1. Key skills
2. Online course recommendations
3. A 3-step career roadmap
4. Resume shortcomings
5. Tips for improvement

Respond in structured JSON like:
{
  "skills": [...],
  "recommended_courses": [...],
  "career_roadmap": [...],
  "shortcomings": [...],
  "improvement_tips": [...]
}
`

// Analysis is the mentor feedback for one resume. When the model reply is
// not a JSON object only RawResponse is set.
type Analysis struct {
	Skills             []string `json:"skills"`
	RecommendedCourses []string `json:"recommended_courses"`
	CareerRoadmap      []string `json:"career_roadmap"`
	Shortcomings       []string `json:"shortcomings"`
	ImprovementTips    []string `json:"improvement_tips"`
	RawResponse        string   `json:"raw_response,omitempty"`
}

func (a *Analysis) normalize() {
	for _, list := range []*[]string{&a.Skills, &a.RecommendedCourses, &a.CareerRoadmap, &a.Shortcomings, &a.ImprovementTips} {
		if *list == nil {
			*list = []string{}
		}
	}
}

// BuildPrompt renders the mentor prompt for resume text.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

var codeFence = regexp.MustCompile("```(?:json)?")

// Parse reads a model reply leniently: code fences are dropped, then the
// reply or the object embedded in it is decoded. Anything else is kept
// verbatim in RawResponse.
func Parse(response string) Analysis {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(response, ""))

	candidates := []string{cleaned}
	if span, found := structuring.EmbeddedObject(cleaned); found && span != cleaned {
		candidates = append(candidates, span)
	}
	for _, c := range candidates {
		var a Analysis
		if err := json.Unmarshal([]byte(c), &a); err == nil && strings.HasPrefix(c, "{") {
			a.RawResponse = ""
			a.normalize()
			return a
		}
	}

	a := Analysis{RawResponse: cleaned}
	a.normalize()
	return a
}

// Analyzer runs the mentor prompt against a generator.
type Analyzer struct {
	gen           llm.Generator
	maxInputBytes int
}

func NewAnalyzer(gen llm.Generator, maxInputBytes int) *Analyzer {
	if maxInputBytes <= 0 {
		maxInputBytes = DefaultMaxInputBytes
	}
	return &Analyzer{gen: gen, maxInputBytes: maxInputBytes}
}

// Analyze returns mentor feedback for the plain-text resume. Generation
// errors are returned unchanged so callers can tell timeouts apart.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMissingText
	}
	if len(text) > a.maxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(text), a.maxInputBytes)
	}

	temperature := 0.4
	req := llm.Prompt(BuildPrompt(text))
	req.Temperature = &temperature
	req.JSON = true

	out, err := a.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	analysis := Parse(out)
	return &analysis, nil
}
