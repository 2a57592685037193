// internal/structuring/classifier.go
package structuring

import "strings"

// Classify picks the extraction domain for text. Keyword sets are checked
// in precedence order news, job, event; the first set with any hit wins.
func (p *Patterns) Classify(text string) Domain {
	lower := strings.ToLower(text)
	for _, set := range p.classification {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.domain
			}
		}
	}
	return DomainGeneric
}

// Classify uses the default pattern set.
func Classify(text string) Domain {
	return defaultPatterns.Classify(text)
}
