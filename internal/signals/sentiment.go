// internal/signals/sentiment.go
package signals

import (
	"regexp"
	"strings"
)

type Sentiment string

const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// polarityThreshold is the magnitude a lexicon score must exceed to leave neutral.
const polarityThreshold = 0.2

// NegativePhrases mark a message as negative regardless of its lexicon score.
var NegativePhrases = []string{
	"i can't", "i cannot", "i'm not good enough", "i give up", "i won't make it",
	"i am worthless", "i feel hopeless", "i hate myself", "i'm done", "what's the point",
	"i'm tired of this", "nothing works", "i failed", "i always mess up",
}

// lexicon maps words to a polarity in [-1, 1].
var lexicon = map[string]float64{
	"good": 0.7, "great": 0.8, "excellent": 1.0, "amazing": 0.6, "awesome": 1.0,
	"happy": 0.8, "glad": 0.5, "love": 0.5, "like": 0.2, "wonderful": 1.0,
	"best": 1.0, "better": 0.5, "nice": 0.6, "excited": 0.4, "confident": 0.5,
	"hopeful": 0.6, "proud": 0.8, "thanks": 0.2, "thank": 0.2, "helpful": 0.4,
	"perfect": 1.0, "fantastic": 0.4, "enjoy": 0.4, "success": 0.3, "successful": 0.75,
	"motivated": 0.5, "strong": 0.43, "interesting": 0.5, "easy": 0.43, "fun": 0.3,
	"bad": -0.7, "terrible": -1.0, "awful": -1.0, "horrible": -1.0, "worst": -1.0,
	"worse": -0.4, "sad": -0.5, "unhappy": -0.6, "hate": -0.8, "angry": -0.5,
	"upset": -0.4, "stressed": -0.5, "anxious": -0.25, "worried": -0.4, "afraid": -0.6,
	"scared": -0.5, "lonely": -0.5, "tired": -0.4, "hopeless": -0.75, "worthless": -0.8,
	"useless": -0.5, "stupid": -0.8, "difficult": -0.5, "hard": -0.29, "fail": -0.5,
	"failed": -0.5, "failure": -0.32, "lost": -0.2, "poor": -0.4, "boring": -1.0,
	"disappointed": -0.75, "disappointing": -0.6, "depressed": -0.6, "miserable": -1.0,
	"weak": -0.38, "rejected": -0.5, "impossible": -0.67, "wrong": -0.5,
}

var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.2, "so": 1.2, "extremely": 1.5, "too": 1.2,
	"totally": 1.3, "completely": 1.4, "quite": 1.1,
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "don't": true, "dont": true,
	"isn't": true, "wasn't": true, "aren't": true, "didn't": true, "doesn't": true,
	"won't": true, "can't": true, "cannot": true,
}

var wordRe = regexp.MustCompile(`[a-z]+(?:'[a-z]+)?`)

// DetectSentiment checks the negative phrase list first and falls back to
// the lexicon polarity.
func DetectSentiment(text string) Sentiment {
	lower := normalizeApostrophes(strings.ToLower(text))
	for _, phrase := range NegativePhrases {
		if strings.Contains(lower, phrase) {
			return SentimentNegative
		}
	}

	p := Polarity(text)
	switch {
	case p < -polarityThreshold:
		return SentimentNegative
	case p > polarityThreshold:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// Polarity averages the lexicon scores of the words in text. A preceding
// intensifier scales a score, a preceding negation flips and halves it.
func Polarity(text string) float64 {
	words := wordRe.FindAllString(normalizeApostrophes(strings.ToLower(text)), -1)

	var sum float64
	var n int
	for i, w := range words {
		score, ok := lexicon[w]
		if !ok {
			continue
		}
		j := i - 1
		if j >= 0 {
			if mult, ok := intensifiers[words[j]]; ok {
				score *= mult
				j--
			}
		}
		if j >= 0 && negations[words[j]] {
			score *= -0.5
		}
		sum += score
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp(sum/float64(n), -1, 1)
}

func normalizeApostrophes(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
