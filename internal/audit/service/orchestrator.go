package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/audit/domain"
	companydomain "github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

type AuditStore interface {
	Create(ctx context.Context, a *domain.Audit) error
	Update(ctx context.Context, a *domain.Audit) error
	Get(ctx context.Context, id int64) (*domain.Audit, error)
	ListByProfile(ctx context.Context, profileID int64) ([]domain.Audit, error)
	LatestByProfile(ctx context.Context, profileID int64) (*domain.Audit, error)
}

// ProfileGetter resolves a profile on behalf of its owner.
type ProfileGetter interface {
	Get(ctx context.Context, userID, id int64) (*companydomain.CompanyProfile, error)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, p jobs.EnqueueParams) (*jobs.Job, error)
}

type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Orchestrator starts audits and serves their results.
type Orchestrator struct {
	audits   AuditStore
	profiles ProfileGetter
	queue    Enqueuer
	locker   Locker
}

func NewOrchestrator(audits AuditStore, profiles ProfileGetter, queue Enqueuer, locker Locker) *Orchestrator {
	return &Orchestrator{audits: audits, profiles: profiles, queue: queue, locker: locker}
}

// Create starts an audit of the profile unless one is already complete or
// running, in which case that audit is reported instead.
func (o *Orchestrator) Create(ctx context.Context, userID, profileID int64) (*domain.CreateResult, error) {
	profile, err := o.profiles.Get(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}

	var result *domain.CreateResult
	key := fmt.Sprintf("lock:audit:profile:%d", profile.ID)
	err = o.locker.WithLock(ctx, key, func(ctx context.Context) error {
		latest, err := o.audits.LatestByProfile(ctx, profile.ID)
		switch {
		case errors.Is(err, domain.ErrAuditNotFound):
		case err != nil:
			return err
		case latest.Status == domain.StatusComplete:
			result = &domain.CreateResult{AuditID: latest.ID, AlreadyComplete: true}
			return nil
		case latest.Status == domain.StatusScanning:
			result = &domain.CreateResult{AuditID: latest.ID, JobID: latest.JobID, InProgress: true}
			return nil
		}

		a := &domain.Audit{
			CompanyProfileID: profile.ID,
			UserID:           profile.UserID,
			Status:           domain.StatusScanning,
			CreatedAt:        time.Now().UTC(),
		}
		if err := o.audits.Create(ctx, a); err != nil {
			return err
		}

		job, err := o.queue.Enqueue(ctx, jobs.EnqueueParams{
			Type:    domain.JobTypeScore,
			UserID:  profile.UserID,
			Payload: domain.ScorePayload{AuditID: a.ID},
		})
		if err != nil {
			a.Status = domain.StatusFailed
			a.Error = "could not schedule scoring"
			if uerr := o.audits.Update(ctx, a); uerr != nil {
				logging.FromContext(ctx).LogError("audit.create", uerr)
			}
			return fmt.Errorf("enqueue audit %d: %w", a.ID, err)
		}

		a.JobID = job.ID
		if err := o.audits.Update(ctx, a); err != nil {
			return err
		}

		logging.FromContext(ctx).LogInfof("audit.create", "audit %d queued for profile %d as job %s", a.ID, profile.ID, job.ID)
		result = &domain.CreateResult{AuditID: a.ID, JobID: job.ID, InProgress: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns an audit owned by userID.
func (o *Orchestrator) Get(ctx context.Context, userID, auditID int64) (*domain.Audit, error) {
	a, err := o.audits.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, domain.ErrAuditNotFound
	}
	return a, nil
}

func (o *Orchestrator) List(ctx context.Context, userID, profileID int64) ([]domain.Audit, error) {
	if _, err := o.profiles.Get(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return o.audits.ListByProfile(ctx, profileID)
}

func (o *Orchestrator) Latest(ctx context.Context, userID, profileID int64) (*domain.Audit, error) {
	if _, err := o.profiles.Get(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return o.audits.LatestByProfile(ctx, profileID)
}

// LatestComplete returns the newest complete audit of a profile, or nil.
// Callers are expected to have checked profile ownership.
func (o *Orchestrator) LatestComplete(ctx context.Context, profileID int64) (*domain.Audit, error) {
	items, err := o.audits.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Status == domain.StatusComplete {
			return &items[i], nil
		}
	}
	return nil, nil
}
