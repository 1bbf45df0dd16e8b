// Package filestore implements the submission store on a flat JSON file.
//
// Writes go to a temporary path in the same directory and are renamed over
// the target, so a crash mid-write never leaves a truncated file behind.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/metrics"
)

// Store is a flat-file SubmissionStore. A process-wide mutex serializes
// file access; concurrent processes are out of scope (the design tolerates
// last-writer-wins).
type Store struct {
	mu      sync.Mutex
	path    string
	version int64
}

// New opens (or creates) the store file at path.
func New(path string, clock clockwork.Clock) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeAtomic(path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("failed to initialize store file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat store file: %w", err)
	}

	// Seed the version from the wall clock so tokens issued after a restart
	// do not collide with tokens a subscriber observed before it.
	return &Store{path: path, version: clock.Now().UnixNano()}, nil
}

func (s *Store) Load(_ context.Context) ([]domain.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) Append(_ context.Context, sub domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(subs, sub))
}

func (s *Store) Remove(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.read()
	if err != nil {
		return false, err
	}

	kept := subs[:0]
	for _, sub := range subs {
		if sub.ID != id {
			kept = append(kept, sub)
		}
	}
	if len(kept) == len(subs) {
		return false, nil
	}
	if err := s.write(kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(nil)
}

func (s *Store) ReplaceAll(_ context.Context, subs []domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(subs)
}

func (s *Store) CurrentVersion(_ context.Context) (domain.VersionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.VersionToken(strconv.FormatInt(s.version, 10)), nil
}

// read assumes s.mu is held.
func (s *Store) read() ([]domain.Submission, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("file", "read", "error").Inc()
		return nil, apperrors.StorageError("failed to read store file", err)
	}

	var subs []domain.Submission
	if len(data) > 0 {
		if err := json.Unmarshal(data, &subs); err != nil {
			metrics.StoreOpsTotal.WithLabelValues("file", "read", "error").Inc()
			return nil, apperrors.StorageError("store file is corrupt", err)
		}
	}
	metrics.StoreOpsTotal.WithLabelValues("file", "read", "ok").Inc()
	return subs, nil
}

// write assumes s.mu is held. Bumps the version only after the rename lands.
func (s *Store) write(subs []domain.Submission) error {
	if subs == nil {
		subs = []domain.Submission{}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return apperrors.StorageError("failed to encode submissions", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		metrics.StoreOpsTotal.WithLabelValues("file", "write", "error").Inc()
		return apperrors.StorageError("failed to write store file", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("file", "write", "ok").Inc()
	s.version++
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
