package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/jobs/jobstest"
)

type recordingHandler struct {
	err      error
	panicMsg string
	handled  atomic.Int32
	failures []error
}

func (h *recordingHandler) Handle(context.Context, *jobs.Job) error {
	h.handled.Add(1)
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *recordingHandler) OnFailure(_ context.Context, _ *jobs.Job, err error) {
	h.failures = append(h.failures, err)
}

type clock struct{ offset time.Duration }

func (c *clock) now() time.Time { return time.Now().Add(c.offset) }

func setup(t *testing.T, h jobs.Handler) (*jobs.Runner, *jobstest.MemQueue, *clock) {
	t.Helper()
	clk := &clock{}
	q := jobstest.NewMemQueue(3)
	q.Now = clk.now
	r := jobs.NewRunner(q, 1, 10*time.Millisecond)
	r.Register("test.job", h)
	return r, q, clk
}

func TestRunner_Succeeds(t *testing.T) {
	h := &recordingHandler{}
	r, q, _ := setup(t, h)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, jobs.EnqueueParams{Type: "test.job", UserID: 1, Payload: map[string]int{"n": 1}})
	require.NoError(t, err)

	worked, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, worked)

	got, err := q.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusSucceeded, got.Status)
	assert.Equal(t, int32(1), h.handled.Load())

	worked, err = r.RunOnce(ctx)
	require.NoError(t, err)
	assert.False(t, worked)
}

func TestRunner_RetriesWithBackoffThenFails(t *testing.T) {
	h := &recordingHandler{err: errors.New("provider down")}
	r, q, clk := setup(t, h)
	ctx := context.Background()

	job, err := q.Enqueue(ctx, jobs.EnqueueParams{Type: "test.job", Payload: struct{}{}})
	require.NoError(t, err)

	_, err = r.RunOnce(ctx)
	require.NoError(t, err)

	got, _ := q.Get(ctx, job.ID)
	assert.Equal(t, jobs.StatusQueued, got.Status)
	assert.Equal(t, "provider down", got.LastError)
	assert.True(t, got.RunAfter.After(time.Now().Add(4*time.Second)), "first retry is delayed")

	worked, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.False(t, worked, "not runnable before backoff elapses")

	for i := 0; i < 2; i++ {
		clk.offset += 10 * time.Minute
		worked, err = r.RunOnce(ctx)
		require.NoError(t, err)
		require.True(t, worked)
	}

	got, _ = q.Get(ctx, job.ID)
	assert.Equal(t, jobs.StatusFailed, got.Status)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, int32(3), h.handled.Load())
	require.Len(t, h.failures, 1)
	assert.EqualError(t, h.failures[0], "provider down")
}

func TestRunner_PermanentErrorSkipsRetries(t *testing.T) {
	h := &recordingHandler{err: jobs.Permanent(errors.New("audit deleted"))}
	r, q, _ := setup(t, h)
	ctx := context.Background()

	job, _ := q.Enqueue(ctx, jobs.EnqueueParams{Type: "test.job", Payload: 1})
	_, err := r.RunOnce(ctx)
	require.NoError(t, err)

	got, _ := q.Get(ctx, job.ID)
	assert.Equal(t, jobs.StatusFailed, got.Status)
	assert.Len(t, h.failures, 1)
}

func TestRunner_RecoversPanics(t *testing.T) {
	h := &recordingHandler{panicMsg: "nil map"}
	r, q, _ := setup(t, h)
	ctx := context.Background()

	job, _ := q.Enqueue(ctx, jobs.EnqueueParams{Type: "test.job", Payload: 1, MaxAttempts: 1})
	_, err := r.RunOnce(ctx)
	require.NoError(t, err)

	got, _ := q.Get(ctx, job.ID)
	assert.Equal(t, jobs.StatusFailed, got.Status)
	assert.Contains(t, got.LastError, "handler panic: nil map")
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	h := &recordingHandler{}
	r, q, _ := setup(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	_, _ = q.Enqueue(ctx, jobs.EnqueueParams{Type: "test.job", Payload: 1})

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.handled.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}

type staleStub struct{ n int64 }

func (s *staleStub) RequeueStale(context.Context, time.Duration) (int64, error) { return s.n, nil }

func TestSweeper(t *testing.T) {
	_, err := jobs.NewSweeper(&staleStub{}, "not a schedule", time.Minute)
	assert.Error(t, err)

	s, err := jobs.NewSweeper(&staleStub{n: 4}, "@every 1m", time.Minute)
	require.NoError(t, err)
	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	s.Start()
	<-s.Stop().Done()
}
