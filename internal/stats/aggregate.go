// Package stats reduces submissions into aggregate statistics.
package stats

import (
	"math"

	"github.com/kriedko/tastepulse/internal/domain"
)

// Compute reduces submissions into an Aggregate. An empty input yields the
// zero-valued aggregate, never a nil/absent one.
//
// Missing ratings count as 0 in the per-field sums, and the experience
// index average is (sum(taste)+sum(service)+sum(wait)+sum(overall))/4/count
// rather than the mean of per-record experience indexes. Both are kept
// exactly as-is for compatibility with previously exported data, even
// though they diverge from a true mean when ratings are partially missing.
func Compute(subs []domain.Submission) domain.Aggregate {
	agg := domain.Aggregate{Count: len(subs)}
	if len(subs) == 0 {
		return agg
	}

	var taste, service, wait, overall int
	var scoreSum float64
	for _, s := range subs {
		taste += ratingOrZero(s.Taste)
		service += ratingOrZero(s.Service)
		wait += ratingOrZero(s.Wait)
		overall += ratingOrZero(s.Overall)
		scoreSum += s.Sentiment.Score

		switch s.Sentiment.Label {
		case domain.SentimentPositive:
			agg.Sentiment.Positive++
		case domain.SentimentNegative:
			agg.Sentiment.Negative++
		default:
			agg.Sentiment.Neutral++
		}
	}

	count := float64(len(subs))
	agg.Averages = domain.RatingAverages{
		Taste:           round2(float64(taste) / count),
		Service:         round2(float64(service) / count),
		Wait:            round2(float64(wait) / count),
		Overall:         round2(float64(overall) / count),
		ExperienceIndex: round2(float64(taste+service+wait+overall) / 4 / count),
	}
	agg.Sentiment.AverageScore = round3(scoreSum / count)

	return agg
}

func ratingOrZero(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}

// Round2 rounds to 2 decimals, used for rating averages and the per-record
// experience index.
func Round2(v float64) float64 { return round2(v) }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
