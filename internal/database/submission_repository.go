package database

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/metrics"
)

// submissionColumns must match the Scan order in scanSubmission.
const submissionColumns = `id, created_at, meal_preference, taste, service, wait_time, overall,
	favourite_item, improvements, experience_index, sentiment_score, sentiment_label`

// SubmissionRepo implements domain.SubmissionStore backed by PostgreSQL.
type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

// Load returns records newest-first.
func (r *SubmissionRepo) Load(ctx context.Context) ([]domain.Submission, error) {
	start := time.Now()
	defer func() {
		metrics.StoreOpDuration.WithLabelValues("postgres", "load").Observe(time.Since(start).Seconds())
	}()

	rows, err := r.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM feedback_submissions ORDER BY created_at DESC`)
	if err != nil {
		return nil, r.fail("load", "failed to query submissions", err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, r.fail("load", "failed to scan submission", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail("load", "failed to read submissions", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("postgres", "load", "ok").Inc()
	return subs, nil
}

func (r *SubmissionRepo) Append(ctx context.Context, sub domain.Submission) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO feedback_submissions (`+submissionColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			sub.ID, sub.CreatedAt, sub.MealPreference,
			sub.Taste, sub.Service, sub.Wait, sub.Overall,
			sub.FavouriteItem, sub.Improvements, sub.ExperienceIndex,
			sub.Sentiment.Score, string(sub.Sentiment.Label))
		return err
	})
	if err != nil {
		return r.fail("append", "failed to persist submission", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("postgres", "append", "ok").Inc()
	return nil
}

// Remove deletes by id. An unknown id is not a mutation: the transaction
// rolls back and the version stays put.
func (r *SubmissionRepo) Remove(ctx context.Context, id string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, r.fail("remove", "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM feedback_submissions WHERE id = $1`, id)
	if err != nil {
		return false, r.fail("remove", "failed to delete submission", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `UPDATE store_version SET version = version + 1 WHERE id = 1`); err != nil {
		return false, r.fail("remove", "failed to bump store version", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, r.fail("remove", "failed to commit delete", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("postgres", "remove", "ok").Inc()
	return true, nil
}

func (r *SubmissionRepo) Clear(ctx context.Context) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM feedback_submissions`)
		return err
	})
	if err != nil {
		return r.fail("clear", "failed to clear submissions", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("postgres", "clear", "ok").Inc()
	return nil
}

// ReplaceAll runs clear and bulk insert in a single transaction. The file
// and KV backends cannot offer that, so callers still must not rely on it.
func (r *SubmissionRepo) ReplaceAll(ctx context.Context, subs []domain.Submission) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM feedback_submissions`); err != nil {
			return err
		}
		for _, sub := range subs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO feedback_submissions (`+submissionColumns+`)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				sub.ID, sub.CreatedAt, sub.MealPreference,
				sub.Taste, sub.Service, sub.Wait, sub.Overall,
				sub.FavouriteItem, sub.Improvements, sub.ExperienceIndex,
				sub.Sentiment.Score, string(sub.Sentiment.Label)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.fail("replace_all", "failed to import submissions", err)
	}
	metrics.StoreOpsTotal.WithLabelValues("postgres", "replace_all", "ok").Inc()
	return nil
}

func (r *SubmissionRepo) CurrentVersion(ctx context.Context) (domain.VersionToken, error) {
	var version int64
	err := r.pool.QueryRow(ctx, `SELECT version FROM store_version WHERE id = 1`).Scan(&version)
	if err != nil {
		return "", r.fail("version", "failed to read store version", err)
	}
	return domain.VersionToken(strconv.FormatInt(version, 10)), nil
}

// inTx runs fn in a transaction that also bumps the store version.
func (r *SubmissionRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE store_version SET version = version + 1 WHERE id = 1`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanSubmission(rows pgx.Rows) (domain.Submission, error) {
	var sub domain.Submission
	var label string
	err := rows.Scan(
		&sub.ID, &sub.CreatedAt, &sub.MealPreference,
		&sub.Taste, &sub.Service, &sub.Wait, &sub.Overall,
		&sub.FavouriteItem, &sub.Improvements, &sub.ExperienceIndex,
		&sub.Sentiment.Score, &label,
	)
	if err != nil {
		return domain.Submission{}, err
	}
	sub.Sentiment.Label = domain.SentimentLabel(label)
	return sub, nil
}

func (r *SubmissionRepo) fail(op, message string, err error) *apperrors.Error {
	metrics.StoreOpsTotal.WithLabelValues("postgres", op, "error").Inc()
	return apperrors.StorageError(message, err)
}
