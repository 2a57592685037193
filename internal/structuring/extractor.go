// internal/structuring/extractor.go
package structuring

import "strings"

// ExtractFields returns "<label> <value>" lines for every labeled field
// found in text, in pattern order and then in textual order. When nothing
// matches, the whole text is returned as the only line.
func (p *Patterns) ExtractFields(text string, domain Domain) []string {
	prof := p.profile(domain)

	var lines []string
	for _, fp := range prof.fields {
		for _, m := range fp.re.FindAllStringSubmatch(text, -1) {
			lines = append(lines, strings.TrimSpace(fp.label+" "+cleanValue(m[1])))
		}
	}

	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, "*")
	return strings.TrimSpace(v)
}

// Summarize derives a one-line synopsis: the first non-empty line with
// markdown heading and emphasis markers removed, cut to maxSummaryRunes.
func Summarize(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#>-• ")
		line = strings.ReplaceAll(line, "**", "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return truncateRunes(line, maxSummaryRunes)
	}
	return ""
}

const maxSummaryRunes = 200

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}
