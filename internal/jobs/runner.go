package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
	"github.com/luxbiz/biz-optimizer/internal/platform/metrics"
)

// Handler executes one job type. OnFailure runs once when the job will not
// be retried again.
type Handler interface {
	Handle(ctx context.Context, job *Job) error
	OnFailure(ctx context.Context, job *Job, err error)
}

// Queue is the subset of Store the runner drives.
type Queue interface {
	ClaimNext(ctx context.Context, types []string) (*Job, error)
	MarkSucceeded(ctx context.Context, id string) error
	MarkRetry(ctx context.Context, id, lastError string, runAfter time.Time) error
	MarkFailed(ctx context.Context, id, lastError string) error
}

type Runner struct {
	queue    Queue
	workers  int
	poll     time.Duration
	handlers map[string]Handler
	now      func() time.Time
}

func NewRunner(queue Queue, workers int, poll time.Duration) *Runner {
	if workers < 1 {
		workers = 1
	}
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &Runner{
		queue:    queue,
		workers:  workers,
		poll:     poll,
		handlers: make(map[string]Handler),
		now:      time.Now,
	}
}

// Register binds a handler to a job type. Call before Run.
func (r *Runner) Register(jobType string, h Handler) {
	r.handlers[jobType] = h
}

func (r *Runner) types() []string {
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Run starts the workers and blocks until ctx is cancelled and every
// in-flight job has returned.
func (r *Runner) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.LogInfof("jobs.run", "starting %d workers for %v", r.workers, r.types())

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r.loop(ctx, worker)
		}(i)
	}
	wg.Wait()
	log.LogInfo("jobs.run", "workers stopped")
}

func (r *Runner) loop(ctx context.Context, worker int) {
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		// drain while there is work, then wait for the next tick
		for {
			if ctx.Err() != nil {
				return
			}
			worked, err := r.RunOnce(ctx)
			if err != nil {
				logging.FromContext(ctx).With(logrus.Fields{"worker": worker}).LogError("jobs.claim", err)
				break
			}
			if !worked {
				break
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce claims and processes at most one job. It reports whether a job
// was claimed.
func (r *Runner) RunOnce(ctx context.Context) (bool, error) {
	job, err := r.queue.ClaimNext(ctx, r.types())
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	r.process(ctx, job)
	return true, nil
}

func (r *Runner) process(ctx context.Context, job *Job) {
	log := logging.FromContext(ctx).With(logrus.Fields{
		"job_id":   job.ID,
		"job_type": job.Type,
		"attempt":  job.Attempts,
	})

	h, ok := r.handlers[job.Type]
	if !ok {
		r.fail(ctx, log, nil, job, fmt.Errorf("no handler for job type %q", job.Type))
		return
	}

	if job.Attempts > job.MaxAttempts {
		r.fail(ctx, log, h, job, errors.New("attempts exhausted after worker loss"))
		return
	}

	err := r.invoke(ctx, h, job)
	if err == nil {
		if err := r.queue.MarkSucceeded(ctx, job.ID); err != nil {
			log.LogError("jobs.mark_succeeded", err)
		}
		metrics.RecordJob(job.Type, "succeeded")
		log.LogInfo("jobs.process", "job succeeded")
		return
	}

	if IsPermanent(err) || job.Exhausted() {
		r.fail(ctx, log, h, job, err)
		return
	}

	delay := Backoff(job.Attempts)
	if err := r.queue.MarkRetry(ctx, job.ID, err.Error(), r.now().Add(delay)); err != nil {
		log.LogError("jobs.mark_retry", err)
	}
	metrics.RecordJob(job.Type, "retry")
	log.LogWarnf("jobs.process", "attempt failed, retrying in %s: %v", delay, err)
}

func (r *Runner) invoke(ctx context.Context, h Handler, job *Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h.Handle(ctx, job)
}

func (r *Runner) fail(ctx context.Context, log *logging.Logger, h Handler, job *Job, cause error) {
	if err := r.queue.MarkFailed(ctx, job.ID, cause.Error()); err != nil {
		log.LogError("jobs.mark_failed", err)
	}
	metrics.RecordJob(job.Type, "failed")
	log.LogErrorf("jobs.process", "job failed permanently: %v", cause)

	if h == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.LogErrorf("jobs.on_failure", "panic: %v", rec)
		}
	}()
	h.OnFailure(ctx, job, cause)
}
