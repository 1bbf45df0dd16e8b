package sentiment

// Curated word sets, disjoint by construction. The lexicon is fixed:
// stored scores are historical and never recomputed when words change.

var positive = wordSet(
	"good", "great", "amazing", "awesome", "fantastic", "delicious", "tasty",
	"yummy", "love", "loved", "fresh", "friendly", "fast", "perfect", "best",
	"wow", "nice", "excellent", "incredible", "divine", "heavenly", "juicy",
	"crispy", "tender", "savory", "sweet", "spicy", "rich", "flavourful",
	"flavorful", "balanced", "satisfying", "quick", "warm", "cozy", "clean",
	"recommend", "recommended",
)

var negative = wordSet(
	"bad", "terrible", "awful", "disappointing", "slow", "cold", "stale",
	"bland", "salty", "soggy", "greasy", "burnt", "overcooked", "undercooked",
	"rude", "expensive", "dirty", "worst", "meh", "okay", "ok", "average",
	"late", "wait", "delay", "noise", "noisy", "crowded", "hard", "raw",
	"dry", "tough", "chewy", "boring", "weak", "watery", "too", "less",
	"under", "over", "issue", "problem", "complaint",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
