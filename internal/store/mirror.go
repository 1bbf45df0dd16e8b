package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kriedko/tastepulse/internal/domain"
	"github.com/kriedko/tastepulse/internal/metrics"
)

const mirrorTimeout = 2 * time.Second

// Mirror is a SubmissionStore that forwards every mutation to a secondary
// store best-effort. Durability toward the primary is required; the mirror
// write may fail without the caller ever noticing more than a log line.
// A circuit breaker stops hammering a secondary that keeps failing.
//
// Reads and the version token always come from the primary: remote wins
// when reachable, and the mirror never influences what callers observe.
type Mirror struct {
	primary   domain.SubmissionStore
	secondary domain.SubmissionStore
	breaker   *gobreaker.CircuitBreaker
}

// NewMirror wraps primary with best-effort forwarding to secondary.
func NewMirror(primary, secondary domain.SubmissionStore) *Mirror {
	settings := gobreaker.Settings{
		Name:    "mirror",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			slog.Warn("Mirror circuit state changed", "from", from.String(), "to", to.String())
			metrics.MirrorCircuitState.Set(float64(to))
		},
	}
	return &Mirror{
		primary:   primary,
		secondary: secondary,
		breaker:   gobreaker.NewCircuitBreaker(settings),
	}
}

func (m *Mirror) Load(ctx context.Context) ([]domain.Submission, error) {
	return m.primary.Load(ctx)
}

func (m *Mirror) Append(ctx context.Context, sub domain.Submission) error {
	if err := m.primary.Append(ctx, sub); err != nil {
		return err
	}
	m.forward("append", func(ctx context.Context) error {
		return m.secondary.Append(ctx, sub)
	})
	return nil
}

func (m *Mirror) Remove(ctx context.Context, id string) (bool, error) {
	ok, err := m.primary.Remove(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	m.forward("remove", func(ctx context.Context) error {
		_, err := m.secondary.Remove(ctx, id)
		return err
	})
	return true, nil
}

func (m *Mirror) Clear(ctx context.Context) error {
	if err := m.primary.Clear(ctx); err != nil {
		return err
	}
	m.forward("clear", func(ctx context.Context) error {
		return m.secondary.Clear(ctx)
	})
	return nil
}

func (m *Mirror) ReplaceAll(ctx context.Context, subs []domain.Submission) error {
	if err := m.primary.ReplaceAll(ctx, subs); err != nil {
		return err
	}
	m.forward("replace_all", func(ctx context.Context) error {
		return m.secondary.ReplaceAll(ctx, subs)
	})
	return nil
}

func (m *Mirror) CurrentVersion(ctx context.Context) (domain.VersionToken, error) {
	return m.primary.CurrentVersion(ctx)
}

// forward runs the secondary write through the breaker with its own
// timeout, detached from the request context so a finished request does
// not cancel an in-flight mirror write.
func (m *Mirror) forward(op string, fn func(ctx context.Context) error) {
	_, err := m.breaker.Execute(func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		return nil, fn(ctx)
	})
	if err != nil {
		metrics.MirrorForwardFailuresTotal.Inc()
		slog.Warn("Mirror forward failed", "operation", op, "error", err)
	}
}
