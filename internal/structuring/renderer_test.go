// internal/structuring/renderer_test.go
package structuring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"career-chat-workers/internal/models"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		doc      models.StructuredAnswer
		expected string
	}{
		{
			name: "full document",
			doc: models.StructuredAnswer{
				Summary: "Backend role at Acme",
				Sections: []models.Section{{
					Title:   "Job Details",
					Content: []string{"**Company:** Acme Corp", "Location: Remote"},
					Icon:    models.IconBriefcase,
				}},
				Links:   []models.Link{{Text: "Apply", URL: "https://acme.example/apply", Type: models.LinkCareer}},
				Actions: []models.Action{{Type: models.ActionApply, Text: "Apply Now", URL: "https://acme.example/apply"}},
			},
			expected: "📌 Backend role at Acme\n" +
				"**Job Details**\n" +
				"• Company: Acme Corp\n" +
				"• Location: Remote\n" +
				"**Useful Links**\n" +
				"- Apply: https://acme.example/apply\n" +
				"**Actions**\n" +
				"- Apply Now",
		},
		{
			name: "untitled section",
			doc: models.StructuredAnswer{
				Sections: []models.Section{{Content: []string{"only line"}}},
			},
			expected: "• only line",
		},
		{
			name:     "empty document",
			doc:      models.StructuredAnswer{},
			expected: EmptyRender,
		},
		{
			name: "empty slices",
			doc: models.StructuredAnswer{
				Sections: []models.Section{},
				Links:    []models.Link{},
				Actions:  []models.Action{},
			},
			expected: EmptyRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.doc))
		})
	}
}

func TestRender_DeterministicAndReadOnly(t *testing.T) {
	doc := models.StructuredAnswer{
		Summary:  "s",
		Sections: []models.Section{{Title: "T", Content: []string{"**bold**"}}},
	}

	first := Render(doc)
	second := Render(doc)

	assert.Equal(t, first, second)
	assert.Equal(t, "**bold**", doc.Sections[0].Content[0])
}
