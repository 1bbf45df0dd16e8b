package domain

import (
	"context"
	"time"
)

// --- Model types ---

// SentimentLabel classifies a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Sentiment is the lexicon-derived polarity of a submission's free text.
// It is computed once at ingestion and stored with the record; it is never
// recomputed on read, even if the lexicon changes later.
type Sentiment struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// Submission is one customer feedback record. Immutable once created.
// Rating fields are nil when not provided, otherwise an integer in [1,5].
type Submission struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	MealPreference  *string   `json:"mealPreference"`
	Taste           *int      `json:"taste"`
	Service         *int      `json:"service"`
	Wait            *int      `json:"wait"`
	Overall         *int      `json:"overall"`
	FavouriteItem   string    `json:"favouriteItem"`
	Improvements    string    `json:"improvements"`
	ExperienceIndex *float64  `json:"experienceIndex"`
	Sentiment       Sentiment `json:"sentiment"`
}

// RatingAverages holds per-field means, rounded to 2 decimals.
type RatingAverages struct {
	Taste           float64 `json:"taste"`
	Service         float64 `json:"service"`
	Wait            float64 `json:"wait"`
	Overall         float64 `json:"overall"`
	ExperienceIndex float64 `json:"experienceIndex"`
}

// SentimentSummary counts stored labels and averages stored scores.
type SentimentSummary struct {
	Positive     int     `json:"positive"`
	Neutral      int     `json:"neutral"`
	Negative     int     `json:"negative"`
	AverageScore float64 `json:"averageScore"`
}

// Aggregate is the computed summary over a set of submissions. It is
// recomputed on demand and never persisted.
type Aggregate struct {
	Count     int              `json:"count"`
	Averages  RatingAverages   `json:"averages"`
	Sentiment SentimentSummary `json:"sentiment"`
}

// ExportFile is the export/import envelope for bulk submission transfer.
type ExportFile struct {
	Version    string       `json:"version"`
	ExportedAt time.Time    `json:"exportedAt"`
	Feedbacks  []Submission `json:"feedbacks"`
}

// ExportFormatVersion is the only envelope version currently written.
const ExportFormatVersion = "1.0"

// VersionToken is an opaque change-detection marker for a store. Callers
// compare tokens for equality only; the representation is backend-specific.
type VersionToken string

// --- Interfaces ---

// SubmissionStore abstracts submission persistence. Implementations exist
// for flat-file JSON, Redis, PostgreSQL, and in-memory.
//
// Load returns records in backend-native order; callers sort if order
// matters. Remove reports false for an unknown id instead of an error.
// ReplaceAll is clear-then-insert and not atomic across the two steps.
// CurrentVersion must observably change after every successful mutation.
type SubmissionStore interface {
	Load(ctx context.Context) ([]Submission, error)
	Append(ctx context.Context, sub Submission) error
	Remove(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
	ReplaceAll(ctx context.Context, subs []Submission) error
	CurrentVersion(ctx context.Context) (VersionToken, error)
}

// RawSubmission is an unvalidated ingestion payload. Rating fields are
// loosely typed because clients send numbers, numeric strings, or nothing.
type RawSubmission struct {
	MealPreference *string `json:"mealPreference"`
	Taste          any     `json:"taste"`
	Service        any     `json:"service"`
	Wait           any     `json:"wait"`
	Overall        any     `json:"overall"`
	FavouriteItem  string  `json:"favouriteItem"`
	Improvements   string  `json:"improvements"`
}

// FeedbackService is the application layer contract. HTTP handlers route
// every operation through here.
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, raw RawSubmission) (Submission, error)
	Aggregates(ctx context.Context) (Aggregate, error)
	ListSubmissions(ctx context.Context) ([]Submission, error)
	DeleteSubmission(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
	Import(ctx context.Context, subs []Submission) (int, error)
	Export(ctx context.Context) (ExportFile, error)
	CurrentVersion(ctx context.Context) (VersionToken, error)
}
