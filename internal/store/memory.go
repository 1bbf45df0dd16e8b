package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/kriedko/tastepulse/internal/domain"
)

// MemoryStore is an in-memory SubmissionStore. Used as the test double and
// as the development backend when no durable store is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	subs    []domain.Submission
	version int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) ([]domain.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Submission, len(m.subs))
	copy(out, m.subs)
	return out, nil
}

func (m *MemoryStore) Append(_ context.Context, sub domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs = append(m.subs, sub)
	m.version++
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.subs {
		if s.ID == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			m.version++
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs = nil
	m.version++
	return nil
}

func (m *MemoryStore) ReplaceAll(_ context.Context, subs []domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs = make([]domain.Submission, len(subs))
	copy(m.subs, subs)
	m.version++
	return nil
}

func (m *MemoryStore) CurrentVersion(_ context.Context) (domain.VersionToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return domain.VersionToken(strconv.FormatInt(m.version, 10)), nil
}
