package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxbiz/biz-optimizer/internal/audit/domain"
	"github.com/luxbiz/biz-optimizer/internal/audit/repository"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	companyrepo "github.com/luxbiz/biz-optimizer/internal/company/repository"
	companyservice "github.com/luxbiz/biz-optimizer/internal/company/service"
	"github.com/luxbiz/biz-optimizer/internal/docstore/docstoretest"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/jobs/jobstest"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
	"github.com/luxbiz/biz-optimizer/internal/platform/lock"
)

type fixture struct {
	orch     *Orchestrator
	audits   *repository.AuditRepository
	profiles *companyrepo.ProfileRepository
	queue    *jobstest.MemQueue
	locker   *lock.Locker
	profile  *companydomain.CompanyProfile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, _ := docstoretest.New(t)
	profiles := companyrepo.NewProfileRepository(store)
	p := &companydomain.CompanyProfile{UserID: 1, BusinessName: "Test Business", Industry: "Restaurant", Location: "Austin, TX"}
	require.NoError(t, profiles.Create(context.Background(), p))

	audits := repository.NewAuditRepository(store)
	q := jobstest.NewMemQueue(3)
	locker := lock.New(store.Client())
	orch := NewOrchestrator(audits, companyservice.NewProfileService(profiles), q, locker)

	return &fixture{orch: orch, audits: audits, profiles: profiles, queue: q, locker: locker, profile: p}
}

func TestCreate_IsIdempotentWhileScanning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)
	assert.True(t, first.InProgress)
	assert.NotEmpty(t, first.JobID)

	second, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AuditID, second.AuditID)
	assert.Equal(t, first.JobID, second.JobID)
	assert.True(t, second.InProgress)
	assert.Equal(t, 1, f.queue.Len(), "only one scoring job")

	a, err := f.orch.Get(ctx, 1, first.AuditID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScanning, a.Status)
	assert.Equal(t, first.JobID, a.JobID)
}

func TestCreate_ShortCircuitsOnComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	done := &domain.Audit{CompanyProfileID: f.profile.ID, UserID: 1, Status: domain.StatusComplete, CreatedAt: time.Now()}
	require.NoError(t, f.audits.Create(ctx, done))

	res, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyComplete)
	assert.Equal(t, done.ID, res.AuditID)
	assert.Zero(t, f.queue.Len())
}

func TestCreate_AfterFailureStartsFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	failed := &domain.Audit{CompanyProfileID: f.profile.ID, UserID: 1, Status: domain.StatusFailed, Error: "boom", CreatedAt: time.Now()}
	require.NoError(t, f.audits.Create(ctx, failed))

	res, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)
	assert.NotEqual(t, failed.ID, res.AuditID)
	assert.True(t, res.InProgress)

	latest, err := f.orch.Latest(ctx, 1, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, res.AuditID, latest.ID)
}

func TestOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orch.Create(ctx, 2, f.profile.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	res, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.NoError(t, err)

	_, err = f.orch.Get(ctx, 2, res.AuditID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.orch.List(ctx, 2, f.profile.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreate_BusyWhileLocked(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = f.locker.WithLock(context.Background(), fmt.Sprintf("lock:audit:profile:%d", f.profile.ID), func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	_, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lock.ErrBusy) || errors.Is(err, context.DeadlineExceeded))
	assert.Zero(t, f.queue.Len())
}

func TestCreate_EnqueueFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	f.orch.queue = failingQueue{}
	ctx := context.Background()

	_, err := f.orch.Create(ctx, 1, f.profile.ID)
	require.Error(t, err)

	latest, err := f.audits.LatestByProfile(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, latest.Status)
}

type failingQueue struct{}

func (failingQueue) Enqueue(context.Context, jobs.EnqueueParams) (*jobs.Job, error) {
	return nil, errors.New("database unavailable")
}

func TestLatestComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.orch.LatestComplete(ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	old := &domain.Audit{CompanyProfileID: f.profile.ID, UserID: 1, Status: domain.StatusComplete, OverallScore: 40}
	require.NoError(t, f.audits.Create(ctx, old))
	running := &domain.Audit{CompanyProfileID: f.profile.ID, UserID: 1, Status: domain.StatusScanning}
	require.NoError(t, f.audits.Create(ctx, running))

	got, err = f.orch.LatestComplete(ctx, f.profile.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, old.ID, got.ID)
}
