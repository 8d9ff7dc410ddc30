package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Store persists jobs in the jobs table.
type Store struct {
	db          *sql.DB
	maxAttempts int
}

func NewStore(db *sql.DB, defaultMaxAttempts int) *Store {
	if defaultMaxAttempts < 1 {
		defaultMaxAttempts = 1
	}
	return &Store{db: db, maxAttempts: defaultMaxAttempts}
}

const jobColumns = `id, type, user_id, payload, status, attempts, max_attempts, coalesce(last_error, ''), run_after, locked_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*Job, error) {
	var j Job
	var payload []byte
	var lockedAt sql.NullTime
	err := row.Scan(
		&j.ID,
		&j.Type,
		&j.UserID,
		&payload,
		&j.Status,
		&j.Attempts,
		&j.MaxAttempts,
		&j.LastError,
		&j.RunAfter,
		&lockedAt,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Payload = json.RawMessage(payload)
	if lockedAt.Valid {
		j.LockedAt = &lockedAt.Time
	}
	return &j, nil
}

// Enqueue inserts a queued job runnable immediately.
func (s *Store) Enqueue(ctx context.Context, p EnqueueParams) (*Job, error) {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", p.Type, err)
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = s.maxAttempts
	}

	query := `
		INSERT INTO jobs (id, type, user_id, payload, status, attempts, max_attempts, run_after)
		VALUES ($1, $2, $3, $4, 'queued', 0, $5, NOW())
		RETURNING ` + jobColumns

	job, err := scanJob(s.db.QueryRowContext(ctx, query, uuid.New().String(), p.Type, p.UserID, string(payload), maxAttempts))
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", p.Type, err)
	}
	return job, nil
}

// ClaimNext locks the oldest runnable job of the given types and marks it
// running. It returns nil when nothing is runnable.
func (s *Store) ClaimNext(ctx context.Context, types []string) (*Job, error) {
	query := `
		UPDATE jobs
		SET status = 'running', attempts = attempts + 1, locked_at = NOW(), updated_at = NOW()
		WHERE id = (
			SELECT id FROM jobs
			WHERE status = 'queued' AND run_after <= NOW() AND type = ANY($1)
			ORDER BY run_after, created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + jobColumns

	job, err := scanJob(s.db.QueryRowContext(ctx, query, pq.Array(types)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	return job, nil
}

func (s *Store) MarkSucceeded(ctx context.Context, id string) error {
	return s.exec(ctx, "mark succeeded", `
		UPDATE jobs SET status = 'succeeded', last_error = NULL, locked_at = NULL, updated_at = NOW()
		WHERE id = $1`, id)
}

// MarkRetry puts the job back in the queue, runnable at runAfter.
func (s *Store) MarkRetry(ctx context.Context, id, lastError string, runAfter time.Time) error {
	return s.exec(ctx, "mark retry", `
		UPDATE jobs SET status = 'queued', last_error = $2, run_after = $3, locked_at = NULL, updated_at = NOW()
		WHERE id = $1`, id, lastError, runAfter)
}

func (s *Store) MarkFailed(ctx context.Context, id, lastError string) error {
	return s.exec(ctx, "mark failed", `
		UPDATE jobs SET status = 'failed', last_error = $2, locked_at = NULL, updated_at = NOW()
		WHERE id = $1`, id, lastError)
}

func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrJobNotFound
	}
	job, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// RequeueStale returns running jobs whose worker stopped reporting to the queue.
func (s *Store) RequeueStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'queued', locked_at = NULL, last_error = 'worker lost', updated_at = NOW()
		WHERE status = 'running' AND locked_at < $1`, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("requeue stale jobs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}
