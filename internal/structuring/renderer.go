// internal/structuring/renderer.go
package structuring

import (
	"strings"

	"career-chat-workers/internal/models"
)

const (
	pinMarker    = "📌"
	bulletMarker = "•"

	// EmptyRender is returned for a document with nothing to show.
	EmptyRender = "I'm sorry, I couldn't find any relevant information."
)

// Render converts a document into plain text for clients that cannot
// display structured answers. It does not modify doc.
func Render(doc models.StructuredAnswer) string {
	var parts []string

	if doc.Summary != "" {
		parts = append(parts, pinMarker+" "+doc.Summary)
	}

	for _, section := range doc.Sections {
		if section.Title != "" {
			parts = append(parts, "**"+section.Title+"**")
		}
		for _, line := range section.Content {
			parts = append(parts, bulletMarker+" "+strings.ReplaceAll(line, "**", ""))
		}
	}

	if len(doc.Links) > 0 {
		parts = append(parts, "**Useful Links**")
		for _, l := range doc.Links {
			parts = append(parts, "- "+l.Text+": "+l.URL)
		}
	}

	if len(doc.Actions) > 0 {
		parts = append(parts, "**Actions**")
		for _, a := range doc.Actions {
			parts = append(parts, "- "+a.Text)
		}
	}

	if len(parts) == 0 {
		return EmptyRender
	}
	return strings.Join(parts, "\n")
}
