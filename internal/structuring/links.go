// internal/structuring/links.go
package structuring

import (
	"strings"

	"career-chat-workers/internal/models"
)

// ExtractLinks finds labeled links for the domain, one per occurrence.
// Only when no labeled link exists does it fall back to wrapping every bare
// URL with the domain's generic text.
func (p *Patterns) ExtractLinks(text string, domain Domain) []models.Link {
	prof := p.profile(domain)
	links := []models.Link{}

	if prof.labelRe != nil {
		for _, m := range prof.labelRe.FindAllStringSubmatch(text, -1) {
			url := trimURL(m[2])
			if url == "" {
				continue
			}
			label := prof.linkLabelFor(strings.TrimSpace(strings.TrimSuffix(m[1], ":")))
			links = append(links, models.Link{Text: label.text, URL: url, Type: label.linkType})
		}
	}
	if len(links) > 0 {
		return links
	}

	for _, raw := range p.url.FindAllString(text, -1) {
		url := trimURL(raw)
		if url == "" {
			continue
		}
		links = append(links, models.Link{Text: prof.fallbackText, URL: url, Type: prof.fallbackType})
	}
	return links
}

// ExtractActions returns one action per "Apply Now <url>" or
// "Register Now <url>" occurrence.
func (p *Patterns) ExtractActions(text string) []models.Action {
	actions := []models.Action{}
	for _, ap := range p.actions {
		for _, m := range ap.re.FindAllStringSubmatch(text, -1) {
			url := trimURL(m[1])
			if url == "" {
				continue
			}
			actions = append(actions, models.Action{Type: ap.actionType, Text: ap.text, URL: url})
		}
	}
	return actions
}

func trimURL(u string) string {
	u = strings.TrimRight(u, ".,;:!?*_")
	if u == "http://" || u == "https://" {
		return ""
	}
	return u
}
