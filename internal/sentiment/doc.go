// Package sentiment scores free text against fixed positive/negative word
// sets. Pure functions, no I/O, deterministic for a given input.
package sentiment
