package store

import (
	"context"
	"errors"
	"testing"

	"github.com/kriedko/tastepulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Load(context.Context) ([]domain.Submission, error) {
	return nil, errors.New("down")
}
func (failingStore) Append(context.Context, domain.Submission) error { return errors.New("down") }
func (failingStore) Remove(context.Context, string) (bool, error)    { return false, errors.New("down") }
func (failingStore) Clear(context.Context) error                     { return errors.New("down") }
func (failingStore) ReplaceAll(context.Context, []domain.Submission) error {
	return errors.New("down")
}
func (failingStore) CurrentVersion(context.Context) (domain.VersionToken, error) {
	return "", errors.New("down")
}

func TestMirrorForwardsMutations(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	m := NewMirror(primary, secondary)

	require.NoError(t, m.Append(ctx, domain.Submission{ID: "a"}))

	subs, err := secondary.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "a", subs[0].ID)

	ok, err := m.Remove(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	subs, err = secondary.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestMirrorSecondaryFailureInvisible(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	m := NewMirror(primary, failingStore{})

	require.NoError(t, m.Append(ctx, domain.Submission{ID: "a"}))
	require.NoError(t, m.Clear(ctx))
	require.NoError(t, m.ReplaceAll(ctx, []domain.Submission{{ID: "b"}}))

	subs, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "b", subs[0].ID)
}

func TestMirrorPrimaryFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	m := NewMirror(failingStore{}, NewMemoryStore())

	assert.Error(t, m.Append(ctx, domain.Submission{ID: "a"}))
	_, err := m.Load(ctx)
	assert.Error(t, err)
}

func TestMirrorSkipsForwardWhenNothingRemoved(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	require.NoError(t, secondary.Append(ctx, domain.Submission{ID: "only-here"}))

	m := NewMirror(primary, secondary)
	ok, err := m.Remove(ctx, "only-here")
	require.NoError(t, err)
	assert.False(t, ok)

	subs, err := secondary.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1, "secondary must not be touched when primary removed nothing")
}

func TestMirrorVersionComesFromPrimary(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	m := NewMirror(primary, secondary)

	require.NoError(t, secondary.Append(ctx, domain.Submission{ID: "x"}))

	v, err := m.CurrentVersion(ctx)
	require.NoError(t, err)
	pv, err := primary.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, pv, v)
}
