// internal/structuring/patterns.go
package structuring

import (
	"regexp"
	"strings"

	"career-chat-workers/internal/models"
)

// Domain selects the extraction template applied to an answer.
type Domain string

const (
	DomainNews    Domain = "news"
	DomainJob     Domain = "job"
	DomainEvent   Domain = "event"
	DomainGeneric Domain = "generic"
)

type domainKeywords struct {
	domain   Domain
	keywords []string
}

type fieldPattern struct {
	label string // rendered as written, e.g. "Company:"
	re    *regexp.Regexp
}

type linkLabel struct {
	text     string
	linkType string
}

type actionPattern struct {
	actionType string
	text       string
	re         *regexp.Regexp
}

type domainProfile struct {
	title        string
	icon         string
	fields       []fieldPattern
	labels       []linkLabel
	labelRe      *regexp.Regexp
	fallbackText string
	fallbackType string
}

// Patterns is the read-only keyword and regex configuration shared by the
// classifier and extractors. All fields are unexported and never mutated
// after construction, so one value may be used from any number of goroutines.
type Patterns struct {
	classification []domainKeywords
	profiles       map[Domain]*domainProfile
	url            *regexp.Regexp
	actions        []actionPattern
}

const (
	urlPattern = `https?://[^\s<>"'()\[\]]+`
	// separator between a label and its URL: optional emphasis, colon or
	// dash, and the "](" of a markdown link.
	labelSeparator = `[ \t*_\]]*(?::|-)?[ \t*_]*[(<]?`
)

var defaultPatterns = buildDefaultPatterns()

// DefaultPatterns returns the built-in pattern set.
func DefaultPatterns() *Patterns {
	return defaultPatterns
}

func buildDefaultPatterns() *Patterns {
	p := &Patterns{
		// Precedence matters: "location" is both a job and an event signal.
		classification: []domainKeywords{
			{DomainNews, []string{"source:", "date:", "highlights:", "news details", "reported by"}},
			{DomainJob, []string{"position", "company", "location", "posted", "focus", "apply", "career"}},
			{DomainEvent, []string{"event", "dates", "venue", "location", "register"}},
		},
		profiles: map[Domain]*domainProfile{},
		url:      regexp.MustCompile(urlPattern),
		actions: []actionPattern{
			newActionPattern(models.ActionApply, "Apply Now"),
			newActionPattern(models.ActionRegister, "Register Now"),
		},
	}

	p.profiles[DomainNews] = newProfile("News Details", models.IconNewspaper,
		[]string{"Title:", "Source:", "Date:", "Highlights:", "Summary:", "Reported By:"},
		[]linkLabel{
			{"Read Full Article", models.LinkNews},
			{"Read More", models.LinkNews},
			{"Source", models.LinkNews},
		},
		"Read Full Article", models.LinkNews,
	)
	p.profiles[DomainJob] = newProfile("Job Details", models.IconBriefcase,
		[]string{"Position:", "Company:", "Location:", "Posted:", "Focus:", "Requirements:", "Experience:", "Salary:"},
		[]linkLabel{
			{"Apply Now", models.LinkCareer},
			{"Apply", models.LinkCareer},
			{"Career Page", models.LinkCareer},
			{"Careers", models.LinkCareer},
		},
		"Company Careers Page", models.LinkCareer,
	)
	p.profiles[DomainEvent] = newProfile("Event Details", models.IconCalendar,
		[]string{"Event:", "Dates:", "Date:", "Venue:", "Location:", "Organizer:"},
		[]linkLabel{
			{"Register Now", models.LinkEvent},
			{"Register", models.LinkEvent},
			{"Website", models.LinkWebsite},
			{"Details", models.LinkEvent},
		},
		"Event Details", models.LinkEvent,
	)
	p.profiles[DomainGeneric] = newProfile("Key Information", models.IconInfo,
		nil,
		[]linkLabel{
			{"Website", models.LinkWebsite},
			{"Foundation", models.LinkFoundation},
			{"Register", models.LinkEvent},
			{"Details", models.LinkWebsite},
		},
		"More Information", models.LinkWebsite,
	)

	return p
}

func newProfile(title, icon string, labels []string, links []linkLabel, fallbackText, fallbackType string) *domainProfile {
	prof := &domainProfile{
		title:        title,
		icon:         icon,
		labels:       links,
		fallbackText: fallbackText,
		fallbackType: fallbackType,
	}

	for _, label := range labels {
		name := strings.TrimSuffix(label, ":")
		// label anywhere on a line (optionally bold), optional colon, rest of the line
		expr := `(?im)[*_]{0,2}\b` + regexp.QuoteMeta(name) +
			`\b[*_]{0,2}[ \t]*:?[ \t]*[*_]{0,2}[ \t]*(.*)$`
		prof.fields = append(prof.fields, fieldPattern{label: label, re: regexp.MustCompile(expr)})
	}

	if len(links) > 0 {
		alts := make([]string, 0, len(links))
		for _, l := range links {
			alts = append(alts, regexp.QuoteMeta(l.text))
		}
		prof.labelRe = regexp.MustCompile(`(?i)\b(` + strings.Join(alts, "|") + `)\b` + labelSeparator + `(` + urlPattern + `)`)
	}

	return prof
}

func newActionPattern(actionType, text string) actionPattern {
	return actionPattern{
		actionType: actionType,
		text:       text,
		re:         regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(text) + `\b` + labelSeparator + `(` + urlPattern + `)`),
	}
}

func (p *Patterns) profile(d Domain) *domainProfile {
	if prof, ok := p.profiles[d]; ok {
		return prof
	}
	return p.profiles[DomainGeneric]
}

// linkLabelFor maps a matched label back to its table entry, falling back
// to the domain's default type.
func (prof *domainProfile) linkLabelFor(matched string) linkLabel {
	for _, l := range prof.labels {
		if strings.EqualFold(l.text, matched) {
			return l
		}
	}
	return linkLabel{text: matched, linkType: prof.fallbackType}
}
