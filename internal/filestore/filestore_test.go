package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/kriedko/tastepulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "submissions.json")
	s, err := New(path, clockwork.NewFakeClock())
	require.NoError(t, err)
	return s, path
}

func TestNewCreatesEmptyFile(t *testing.T) {
	s, path := newTestStore(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	subs, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sub := domain.Submission{
		ID:        "1724900000000_ab3xz",
		CreatedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		Sentiment: domain.Sentiment{Score: 0.2, Label: domain.SentimentPositive},
	}
	require.NoError(t, s.Append(ctx, sub))

	subs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub, subs[0])
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Append(ctx, domain.Submission{ID: "a"}))
	require.NoError(t, s.Append(ctx, domain.Submission{ID: "b"}))

	ok, err := s.Remove(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Remove(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	subs, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "b", subs[0].ID)
}

func TestClearAndReplaceAll(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Append(ctx, domain.Submission{ID: "a"}))
	require.NoError(t, s.Clear(ctx))

	subs, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)

	require.NoError(t, s.ReplaceAll(ctx, []domain.Submission{{ID: "x"}, {ID: "y"}}))
	subs, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestVersionChangesOnMutation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	v0, err := s.CurrentVersion(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, domain.Submission{ID: "a"}))
	v1, err := s.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v0, v1)

	require.NoError(t, s.Clear(ctx))
	v2, err := s.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)
}

func TestCorruptFileSurfacesStorageError(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestNoTempFileLeftBehind(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, s.Append(ctx, domain.Submission{ID: "a"}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
