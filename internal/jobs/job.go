// Package jobs is a durable job queue on a Postgres table, drained by a pool
// of workers. It runs the audit scoring and post-purchase auto-fix work.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

var ErrJobNotFound = fmt.Errorf("job %w", apperr.ErrNotFound)

type Job struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	UserID      int64           `json:"user_id"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   string          `json:"last_error,omitempty"`
	RunAfter    time.Time       `json:"run_after"`
	LockedAt    *time.Time      `json:"locked_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Decode unmarshals the payload into v.
func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return Permanent(fmt.Errorf("decode %s payload: %w", j.Type, err))
	}
	return nil
}

// Exhausted reports whether no retry is left after the current attempt.
func (j *Job) Exhausted() bool {
	return j.Attempts >= j.MaxAttempts
}

type EnqueueParams struct {
	Type        string
	UserID      int64
	Payload     any
	MaxAttempts int
}

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

const (
	backoffBase = 5 * time.Second
	backoffMax  = 5 * time.Minute
)

// Backoff returns the delay before retrying after the given attempt (1-based).
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := backoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= backoffMax {
			return backoffMax
		}
	}
	return d
}
