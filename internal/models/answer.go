// internal/models/answer.go
package models

// StructuredAnswer is the UI-facing shape of a generated answer.
type StructuredAnswer struct {
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
	Links    []Link    `json:"links"`
	Actions  []Action  `json:"actions"`
}

type Section struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
	Icon    string   `json:"icon"`
}

type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Action struct {
	Type string `json:"type"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Section icons
const (
	IconInfo      = "info"
	IconCalendar  = "calendar"
	IconBriefcase = "briefcase"
	IconNewspaper = "newspaper"
)

// Link types
const (
	LinkWebsite    = "website"
	LinkNews       = "news"
	LinkCareer     = "career"
	LinkEvent      = "event"
	LinkFoundation = "foundation"
)

// Action types
const (
	ActionApply    = "apply"
	ActionRegister = "register"
)

// Normalize replaces nil slices with empty ones so the document always
// serializes all four keys as arrays.
func (a *StructuredAnswer) Normalize() {
	if a.Sections == nil {
		a.Sections = []Section{}
	}
	if a.Links == nil {
		a.Links = []Link{}
	}
	if a.Actions == nil {
		a.Actions = []Action{}
	}
	for i := range a.Sections {
		if a.Sections[i].Content == nil {
			a.Sections[i].Content = []string{}
		}
	}
}
