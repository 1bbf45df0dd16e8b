package app

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/kriedko/tastepulse/internal/stats"
)

const maxTextLength = 2000

// normalizeRating coerces a loosely typed rating into nil or an integer in
// [1,5]. Numbers and numeric strings round to the nearest integer and
// clamp into range; anything non-finite or non-numeric becomes nil.
// Out-of-range values are clamped, never rejected.
func normalizeRating(v any) *int {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f = x
	case int:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil
		}
		f = parsed
	case bool:
		// Numeric coercion of booleans, kept for clients that send
		// checkbox values straight through.
		if x {
			f = 1
		}
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	r := int(math.Round(f))
	if r < 1 {
		r = 1
	}
	if r > 5 {
		r = 5
	}
	return &r
}

// normalizeText truncates to the maximum stored length. Truncation happens
// on bytes, matching what the store persists.
func normalizeText(s string) string {
	if len(s) > maxTextLength {
		return s[:maxTextLength]
	}
	return s
}

// normalizePreference maps an empty preference to nil.
func normalizePreference(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

// experienceIndex is the mean of the present ratings rounded to 2 decimals,
// or nil when no ratings were given.
func experienceIndex(ratings ...*int) *float64 {
	sum, n := 0, 0
	for _, r := range ratings {
		if r != nil {
			sum += *r
			n++
		}
	}
	if n == 0 {
		return nil
	}
	idx := stats.Round2(float64(sum) / float64(n))
	return &idx
}
