package sentiment

import (
	"strings"

	"github.com/kriedko/tastepulse/internal/domain"
)

const (
	// tally is divided by this before clamping to [-1, 1]
	normalizationDivisor = 10.0

	positiveThreshold = 0.15
	negativeThreshold = -0.15
)

// Score tokenizes the given texts and tallies them against the lexicon.
// Each positive word adds 1, each negative word subtracts 1; the tally is
// divided by 10 and clamped into [-1, 1]. Empty or all-unknown input yields
// {0, neutral}.
func Score(texts ...string) domain.Sentiment {
	tally := 0
	for _, text := range texts {
		for _, word := range tokenize(text) {
			if _, ok := positive[word]; ok {
				tally++
			}
			if _, ok := negative[word]; ok {
				tally--
			}
		}
	}

	score := clamp(float64(tally)/normalizationDivisor, -1, 1)
	return domain.Sentiment{Score: score, Label: labelFor(score)}
}

// labelFor maps a score in [-1, 1] onto a label via fixed thresholds.
func labelFor(score float64) domain.SentimentLabel {
	switch {
	case score > positiveThreshold:
		return domain.SentimentPositive
	case score < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// tokenize lowercases the text, replaces every character that is not a
// letter or whitespace with a space, and splits on whitespace.
// strings.Fields drops the empties.
func tokenize(text string) []string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			return r
		default:
			return ' '
		}
	}, text)
	return strings.Fields(mapped)
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
