package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/metrics"
)

const (
	keyIndex   = "feedback:index"   // zset: member=id, score=createdAt millis
	keyVersion = "feedback:version" // counter bumped on every mutation
	keyPrefix  = "feedback:sub:"    // one JSON value per record
)

// SubmissionStore implements domain.SubmissionStore on Redis. Each record
// is a JSON value under feedback:sub:<id>; a zset orders ids by creation
// time; a plain counter serves as the version token.
type SubmissionStore struct {
	rdb *goredis.Client
}

func NewSubmissionStore(rdb *goredis.Client) *SubmissionStore {
	return &SubmissionStore{rdb: rdb}
}

// Load returns records newest-first (zset order, descending score).
// Index entries whose record key is missing are skipped and logged; a
// partially completed append must not break the whole listing.
func (s *SubmissionStore) Load(ctx context.Context) ([]domain.Submission, error) {
	start := time.Now()
	defer func() { metrics.StoreOpDuration.WithLabelValues("redis", "load").Observe(time.Since(start).Seconds()) }()

	ids, err := s.rdb.ZRevRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return nil, s.fail("load", "failed to read submission index", err)
	}
	if len(ids) == 0 {
		metrics.StoreOpsTotal.WithLabelValues("redis", "load", "ok").Inc()
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, s.fail("load", "failed to read submissions", err)
	}

	subs := make([]domain.Submission, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			slog.Warn("Submission missing for indexed id", "id", ids[i])
			continue
		}
		var sub domain.Submission
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			slog.Warn("Skipping corrupt submission value", "id", ids[i], "error", err)
			continue
		}
		subs = append(subs, sub)
	}
	metrics.StoreOpsTotal.WithLabelValues("redis", "load", "ok").Inc()
	return subs, nil
}

// Append writes the record value, indexes it, and bumps the version in one
// pipeline. Redis pipelines are not transactions; if the index update is
// lost the record is skipped on Load, which is the accepted best-effort
// behavior for the remote backend.
func (s *SubmissionStore) Append(ctx context.Context, sub domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return apperrors.StorageError("failed to encode submission", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, keyPrefix+sub.ID, data, 0)
	pipe.ZAdd(ctx, keyIndex, goredis.Z{Score: float64(sub.CreatedAt.UnixMilli()), Member: sub.ID})
	pipe.Incr(ctx, keyVersion)
	if _, err := pipe.Exec(ctx); err != nil {
		return s.fail("append", "failed to persist submission", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("redis", "append", "ok").Inc()
	return nil
}

func (s *SubmissionStore) Remove(ctx context.Context, id string) (bool, error) {
	deleted, err := s.rdb.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, s.fail("remove", "failed to delete submission", err)
	}
	if deleted == 0 {
		return false, nil
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZRem(ctx, keyIndex, id)
	pipe.Incr(ctx, keyVersion)
	if _, err := pipe.Exec(ctx); err != nil {
		// Record is gone; a stale index entry is tolerated and skipped on Load.
		slog.Warn("Failed to update index after delete", "id", id, "error", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("redis", "remove", "ok").Inc()
	return true, nil
}

func (s *SubmissionStore) Clear(ctx context.Context) error {
	ids, err := s.rdb.ZRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return s.fail("clear", "failed to read submission index", err)
	}

	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, keyPrefix+id)
	}
	pipe.Del(ctx, keyIndex)
	pipe.Incr(ctx, keyVersion)
	if _, err := pipe.Exec(ctx); err != nil {
		return s.fail("clear", "failed to clear submissions", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("redis", "clear", "ok").Inc()
	return nil
}

// ReplaceAll clears and bulk-inserts. Not atomic across the two steps; a
// concurrent reader may observe an empty store in between.
func (s *SubmissionStore) ReplaceAll(ctx context.Context, subs []domain.Submission) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	pipe := s.rdb.TxPipeline()
	for _, sub := range subs {
		data, err := json.Marshal(sub)
		if err != nil {
			return apperrors.StorageError("failed to encode submission", err)
		}
		pipe.Set(ctx, keyPrefix+sub.ID, data, 0)
		pipe.ZAdd(ctx, keyIndex, goredis.Z{Score: float64(sub.CreatedAt.UnixMilli()), Member: sub.ID})
	}
	pipe.Incr(ctx, keyVersion)
	if _, err := pipe.Exec(ctx); err != nil {
		return s.fail("replace_all", "failed to import submissions", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("redis", "replace_all", "ok").Inc()
	return nil
}

func (s *SubmissionStore) CurrentVersion(ctx context.Context) (domain.VersionToken, error) {
	v, err := s.rdb.Get(ctx, keyVersion).Result()
	if err == goredis.Nil {
		return domain.VersionToken("0"), nil
	}
	if err != nil {
		return "", s.fail("version", "failed to read store version", err)
	}
	return domain.VersionToken(v), nil
}

func (s *SubmissionStore) fail(op, message string, err error) *apperrors.Error {
	metrics.StoreOpsTotal.WithLabelValues("redis", op, "error").Inc()
	return apperrors.StorageError(message, err)
}
