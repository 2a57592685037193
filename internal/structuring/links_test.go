// internal/structuring/links_test.go
package structuring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"career-chat-workers/internal/models"
)

func TestExtractLinks(t *testing.T) {
	p := DefaultPatterns()

	tests := []struct {
		name     string
		text     string
		domain   Domain
		expected []models.Link
	}{
		{
			name:   "job apply label",
			text:   "Company: Acme\nApply: https://acme.example/apply",
			domain: DomainJob,
			expected: []models.Link{
				{Text: "Apply", URL: "https://acme.example/apply", Type: models.LinkCareer},
			},
		},
		{
			name:   "apply now wins over apply",
			text:   "Apply Now: https://acme.example/jobs/1",
			domain: DomainJob,
			expected: []models.Link{
				{Text: "Apply Now", URL: "https://acme.example/jobs/1", Type: models.LinkCareer},
			},
		},
		{
			name:   "news read full article",
			text:   "Read Full Article https://news.example/a.",
			domain: DomainNews,
			expected: []models.Link{
				{Text: "Read Full Article", URL: "https://news.example/a", Type: models.LinkNews},
			},
		},
		{
			name:   "generic labels typed per label",
			text:   "Website: https://wit.example\nFoundation: https://found.example",
			domain: DomainGeneric,
			expected: []models.Link{
				{Text: "Website", URL: "https://wit.example", Type: models.LinkWebsite},
				{Text: "Foundation", URL: "https://found.example", Type: models.LinkFoundation},
			},
		},
		{
			name:   "markdown link syntax",
			text:   "[Register](https://event.example/r)",
			domain: DomainEvent,
			expected: []models.Link{
				{Text: "Register", URL: "https://event.example/r", Type: models.LinkEvent},
			},
		},
		{
			name:   "bare url generic text",
			text:   "see https://example.com/info for more",
			domain: DomainGeneric,
			expected: []models.Link{
				{Text: "More Information", URL: "https://example.com/info", Type: models.LinkWebsite},
			},
		},
		{
			name:   "bare url job text",
			text:   "Jobs at https://acme.example/careers",
			domain: DomainJob,
			expected: []models.Link{
				{Text: "Company Careers Page", URL: "https://acme.example/careers", Type: models.LinkCareer},
			},
		},
		{
			name:   "tier two skipped when tier one found",
			text:   "Apply: https://a.example/x and also https://b.example/y",
			domain: DomainJob,
			expected: []models.Link{
				{Text: "Apply", URL: "https://a.example/x", Type: models.LinkCareer},
			},
		},
		{
			name:   "repeated bare url kept per occurrence",
			text:   "https://a.example https://a.example",
			domain: DomainGeneric,
			expected: []models.Link{
				{Text: "More Information", URL: "https://a.example", Type: models.LinkWebsite},
				{Text: "More Information", URL: "https://a.example", Type: models.LinkWebsite},
			},
		},
		{
			name:   "repeated labeled link kept per occurrence",
			text:   "Apply Now https://a.example/x and Apply Now https://a.example/x",
			domain: DomainJob,
			expected: []models.Link{
				{Text: "Apply Now", URL: "https://a.example/x", Type: models.LinkCareer},
				{Text: "Apply Now", URL: "https://a.example/x", Type: models.LinkCareer},
			},
		},
		{
			name:     "no urls",
			text:     "no links at all",
			domain:   DomainGeneric,
			expected: []models.Link{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ExtractLinks(tt.text, tt.domain))
		})
	}
}

func TestExtractActions(t *testing.T) {
	p := DefaultPatterns()

	tests := []struct {
		name     string
		text     string
		expected []models.Action
	}{
		{
			name: "apply and register",
			text: "Register Now: https://ev.example/r\nApply Now https://job.example/a",
			expected: []models.Action{
				{Type: models.ActionApply, Text: "Apply Now", URL: "https://job.example/a"},
				{Type: models.ActionRegister, Text: "Register Now", URL: "https://ev.example/r"},
			},
		},
		{
			name: "case insensitive and repeated",
			text: "apply now https://a.example/1\nAPPLY NOW https://a.example/2",
			expected: []models.Action{
				{Type: models.ActionApply, Text: "Apply Now", URL: "https://a.example/1"},
				{Type: models.ActionApply, Text: "Apply Now", URL: "https://a.example/2"},
			},
		},
		{
			name:     "plain apply is not an action",
			text:     "Apply: https://a.example",
			expected: []models.Action{},
		},
		{
			name:     "none",
			text:     "",
			expected: []models.Action{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ExtractActions(tt.text))
		})
	}
}
