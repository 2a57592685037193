// internal/structuring/structurer.go
package structuring

import (
	"errors"
	"regexp"

	"career-chat-workers/internal/models"
)

// ErrInputTooLarge marks answers longer than the configured bound. The
// accompanying Result still carries a usable degenerate document.
var ErrInputTooLarge = errors.New("STRUCTURING_INPUT_TOO_LARGE")

// Tier records which stage produced a document.
type Tier string

const (
	TierDirect     Tier = "direct"
	TierEmbedded   Tier = "embedded"
	TierExtracted  Tier = "extracted"
	TierDegenerate Tier = "degenerate"
	TierOversized  Tier = "oversized"
)

const (
	DefaultMaxInputBytes = 64 * 1024
	degenerateTitle      = "Key Information"
)

var embeddedObject = regexp.MustCompile(`(?s)\{.*\}`)

// EmbeddedObject returns the span from the first '{' to the last '}' in text.
func EmbeddedObject(text string) (string, bool) {
	span := embeddedObject.FindString(text)
	return span, span != ""
}

// Result is the outcome of Structure. Err is non-nil only for the
// oversized tier.
type Result struct {
	Answer models.StructuredAnswer
	Tier   Tier
	Domain Domain
	Err    error
}

// Structurer turns raw generated answers into StructuredAnswer documents.
// It holds only read-only state and is safe for concurrent use.
type Structurer struct {
	patterns      *Patterns
	validator     *Validator
	maxInputBytes int

	// hook for tests to force a failure inside fallback construction
	buildHook func()
}

type Option func(*Structurer)

func WithMaxInputBytes(n int) Option {
	return func(s *Structurer) {
		if n > 0 {
			s.maxInputBytes = n
		}
	}
}

func WithPatterns(p *Patterns) Option {
	return func(s *Structurer) {
		if p != nil {
			s.patterns = p
		}
	}
}

func New(opts ...Option) (*Structurer, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	s := &Structurer{
		patterns:      defaultPatterns,
		validator:     v,
		maxInputBytes: DefaultMaxInputBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Structure never fails: each stage that cannot produce a valid document
// hands over to the next, ending in the degenerate document.
func (s *Structurer) Structure(raw string) Result {
	if len(raw) > s.maxInputBytes {
		return Result{
			Answer: oversizedAnswer(raw),
			Tier:   TierOversized,
			Domain: DomainGeneric,
			Err:    ErrInputTooLarge,
		}
	}

	if answer, tier, ok := s.fastPath(raw); ok {
		return Result{Answer: answer, Tier: tier, Domain: DomainGeneric}
	}

	answer, domain, ok := s.build(raw)
	if !ok {
		return Result{Answer: degenerateAnswer(raw), Tier: TierDegenerate, Domain: DomainGeneric}
	}
	return Result{Answer: answer, Tier: TierExtracted, Domain: domain}
}

func (s *Structurer) fastPath(raw string) (answer models.StructuredAnswer, tier Tier, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if candidate, parsed := tryParse(raw); parsed {
		if p := s.validator.Check(candidate); p.Valid {
			return p.Answer, TierDirect, true
		}
	}

	if span, found := EmbeddedObject(raw); found {
		if candidate, parsed := tryParse(span); parsed {
			if p := s.validator.Check(candidate); p.Valid {
				return p.Answer, TierEmbedded, true
			}
		}
	}

	return models.StructuredAnswer{}, "", false
}

func (s *Structurer) build(raw string) (answer models.StructuredAnswer, domain Domain, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if s.buildHook != nil {
		s.buildHook()
	}

	domain = s.patterns.Classify(raw)
	prof := s.patterns.profile(domain)

	answer = models.StructuredAnswer{
		Summary: Summarize(raw),
		Sections: []models.Section{{
			Title:   prof.title,
			Content: s.patterns.ExtractFields(raw, domain),
			Icon:    prof.icon,
		}},
		Links:   s.patterns.ExtractLinks(raw, domain),
		Actions: s.patterns.ExtractActions(raw),
	}
	answer.Normalize()
	return answer, domain, true
}

func degenerateAnswer(raw string) models.StructuredAnswer {
	return models.StructuredAnswer{
		Summary: raw,
		Sections: []models.Section{{
			Title:   degenerateTitle,
			Content: []string{raw},
			Icon:    models.IconInfo,
		}},
		Links:   []models.Link{},
		Actions: []models.Action{},
	}
}

func oversizedAnswer(raw string) models.StructuredAnswer {
	a := degenerateAnswer(raw)
	a.Summary = Summarize(raw)
	return a
}

var defaultStructurer = mustDefault()

func mustDefault() *Structurer {
	s, err := New()
	if err != nil {
		panic(err)
	}
	return s
}

// Structure runs the default Structurer and returns only the document.
func Structure(raw string) models.StructuredAnswer {
	return defaultStructurer.Structure(raw).Answer
}
