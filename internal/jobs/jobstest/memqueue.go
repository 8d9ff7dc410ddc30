// Package jobstest provides an in-memory job queue for tests of job
// producers and handlers.
package jobstest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luxbiz/biz-optimizer/internal/jobs"
)

// MemQueue mirrors the Postgres store semantics in memory.
type MemQueue struct {
	mu          sync.Mutex
	jobs        map[string]*jobs.Job
	MaxAttempts int
	Now         func() time.Time
}

func NewMemQueue(maxAttempts int) *MemQueue {
	return &MemQueue{jobs: make(map[string]*jobs.Job), MaxAttempts: maxAttempts, Now: time.Now}
}

func (q *MemQueue) Enqueue(_ context.Context, p jobs.EnqueueParams) (*jobs.Job, error) {
	payload, err := json.Marshal(p.Payload)
	if err != nil {
		return nil, err
	}
	max := p.MaxAttempts
	if max < 1 {
		max = q.MaxAttempts
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.Now()
	j := &jobs.Job{
		ID:          uuid.New().String(),
		Type:        p.Type,
		UserID:      p.UserID,
		Payload:     payload,
		Status:      jobs.StatusQueued,
		MaxAttempts: max,
		RunAfter:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q.jobs[j.ID] = j
	cp := *j
	return &cp, nil
}

func (q *MemQueue) ClaimNext(_ context.Context, types []string) (*jobs.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	now := q.Now()
	var ready []*jobs.Job
	for _, j := range q.jobs {
		if j.Status == jobs.StatusQueued && !j.RunAfter.After(now) && allowed[j.Type] {
			ready = append(ready, j)
		}
	}
	if len(ready) == 0 {
		return nil, nil
	}
	sort.Slice(ready, func(a, b int) bool {
		if ready[a].RunAfter.Equal(ready[b].RunAfter) {
			return ready[a].CreatedAt.Before(ready[b].CreatedAt)
		}
		return ready[a].RunAfter.Before(ready[b].RunAfter)
	})

	j := ready[0]
	j.Status = jobs.StatusRunning
	j.Attempts++
	j.LockedAt = &now
	cp := *j
	return &cp, nil
}

func (q *MemQueue) MarkSucceeded(_ context.Context, id string) error {
	return q.update(id, func(j *jobs.Job) {
		j.Status = jobs.StatusSucceeded
		j.LastError = ""
	})
}

func (q *MemQueue) MarkRetry(_ context.Context, id, lastError string, runAfter time.Time) error {
	return q.update(id, func(j *jobs.Job) {
		j.Status = jobs.StatusQueued
		j.LastError = lastError
		j.RunAfter = runAfter
	})
}

func (q *MemQueue) MarkFailed(_ context.Context, id, lastError string) error {
	return q.update(id, func(j *jobs.Job) {
		j.Status = jobs.StatusFailed
		j.LastError = lastError
	})
}

func (q *MemQueue) Get(_ context.Context, id string) (*jobs.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return nil, jobs.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

// Len returns how many jobs were ever enqueued.
func (q *MemQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *MemQueue) update(id string, fn func(*jobs.Job)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[id]
	if !ok {
		return jobs.ErrJobNotFound
	}
	fn(j)
	j.LockedAt = nil
	j.UpdatedAt = q.Now()
	return nil
}
