package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/metrics"
	"github.com/kriedko/tastepulse/internal/sentiment"
	"github.com/kriedko/tastepulse/internal/stats"
)

const idSuffixLength = 5

// Service implements domain.FeedbackService.
type Service struct {
	store domain.SubmissionStore
	clock clockwork.Clock
}

// NewService creates the application service over the given store.
func NewService(store domain.SubmissionStore, clock clockwork.Clock) *Service {
	return &Service{store: store, clock: clock}
}

// SubmitFeedback normalizes the raw payload, scores its free text, and
// persists the resulting record with exactly one store append. The record
// is fully built before any store call, so a failed append persists nothing.
func (s *Service) SubmitFeedback(ctx context.Context, raw domain.RawSubmission) (domain.Submission, error) {
	now := s.clock.Now().UTC()

	sub := domain.Submission{
		ID:             newSubmissionID(now),
		CreatedAt:      now,
		MealPreference: normalizePreference(raw.MealPreference),
		Taste:          normalizeRating(raw.Taste),
		Service:        normalizeRating(raw.Service),
		Wait:           normalizeRating(raw.Wait),
		Overall:        normalizeRating(raw.Overall),
		FavouriteItem:  normalizeText(raw.FavouriteItem),
		Improvements:   normalizeText(raw.Improvements),
	}
	sub.ExperienceIndex = experienceIndex(sub.Taste, sub.Service, sub.Wait, sub.Overall)
	sub.Sentiment = sentiment.Score(sub.FavouriteItem, sub.Improvements)

	if err := s.store.Append(ctx, sub); err != nil {
		metrics.SubmissionsRejectedTotal.Inc()
		return domain.Submission{}, apperrors.AsStructuredError(err)
	}

	metrics.SubmissionsTotal.Inc()
	slog.Info("Feedback accepted", "submission_id", sub.ID, "sentiment", sub.Sentiment.Label)
	return sub, nil
}

// Aggregates loads all submissions and reduces them. The aggregate is
// ephemeral; nothing is persisted.
func (s *Service) Aggregates(ctx context.Context) (domain.Aggregate, error) {
	subs, err := s.store.Load(ctx)
	if err != nil {
		return domain.Aggregate{}, apperrors.AsStructuredError(err)
	}

	start := time.Now()
	agg := stats.Compute(subs)
	metrics.AggregateComputeDuration.Observe(time.Since(start).Seconds())
	return agg, nil
}

// ListSubmissions returns all records sorted by creation time descending.
func (s *Service) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	subs, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.AsStructuredError(err)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
	return subs, nil
}

// DeleteSubmission reports false for an unknown id, matching the store.
func (s *Service) DeleteSubmission(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Remove(ctx, id)
	if err != nil {
		return false, apperrors.AsStructuredError(err)
	}
	if ok {
		slog.Info("Submission deleted", "submission_id", id)
	}
	return ok, nil
}

func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return apperrors.AsStructuredError(err)
	}
	slog.Info("All submissions deleted")
	return nil
}

// Import replaces the store contents with the given records. Imported data
// is trusted to already conform to the Submission shape: no re-normalization
// and no re-scoring, so an export/import round trip preserves ids,
// timestamps, and stored sentiment exactly.
func (s *Service) Import(ctx context.Context, subs []domain.Submission) (int, error) {
	if err := s.store.ReplaceAll(ctx, subs); err != nil {
		return 0, apperrors.AsStructuredError(err)
	}
	slog.Info("Submissions imported", "count", len(subs))
	return len(subs), nil
}

// Export wraps the current submissions in the versioned envelope.
func (s *Service) Export(ctx context.Context) (domain.ExportFile, error) {
	subs, err := s.ListSubmissions(ctx)
	if err != nil {
		return domain.ExportFile{}, err
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	return domain.ExportFile{
		Version:    domain.ExportFormatVersion,
		ExportedAt: s.clock.Now().UTC(),
		Feedbacks:  subs,
	}, nil
}

func (s *Service) CurrentVersion(ctx context.Context) (domain.VersionToken, error) {
	v, err := s.store.CurrentVersion(ctx)
	if err != nil {
		return "", apperrors.AsStructuredError(err)
	}
	return v, nil
}

// newSubmissionID builds "{epochMillis}_{5 base36 chars}". The random
// suffix keeps ids unique when two submissions land in the same
// millisecond.
func newSubmissionID(now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), randomSuffix(idSuffixLength))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in much deeper trouble;
		// fall back to a fixed suffix rather than refusing feedback.
		return "00000"
	}
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}
	return string(buf)
}
