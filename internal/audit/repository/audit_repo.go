package repository

import (
	"context"
	"errors"

	"github.com/luxbiz/biz-optimizer/internal/audit/domain"
	"github.com/luxbiz/biz-optimizer/internal/docstore"
)

const collection = "audits"

type AuditRepository struct {
	store *docstore.Store
}

func NewAuditRepository(store *docstore.Store) *AuditRepository {
	return &AuditRepository{store: store}
}

func indexes(a *domain.Audit) []docstore.Index {
	return []docstore.Index{
		docstore.By("profile", a.CompanyProfileID),
		docstore.By("user", a.UserID),
	}
}

func (r *AuditRepository) Create(ctx context.Context, a *domain.Audit) error {
	id, err := r.store.NextID(ctx, collection)
	if err != nil {
		return err
	}
	a.ID = id
	return r.store.Put(ctx, collection, id, a, indexes(a)...)
}

func (r *AuditRepository) Update(ctx context.Context, a *domain.Audit) error {
	return r.store.Put(ctx, collection, a.ID, a, indexes(a)...)
}

func (r *AuditRepository) Get(ctx context.Context, id int64) (*domain.Audit, error) {
	var a domain.Audit
	if err := r.store.Get(ctx, collection, id, &a); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrAuditNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByProfile returns a profile's audits, newest first.
func (r *AuditRepository) ListByProfile(ctx context.Context, profileID int64) ([]domain.Audit, error) {
	items, err := docstore.ListBy[domain.Audit](ctx, r.store, collection, docstore.By("profile", profileID))
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

// LatestByProfile returns the newest audit of a profile, or ErrAuditNotFound.
func (r *AuditRepository) LatestByProfile(ctx context.Context, profileID int64) (*domain.Audit, error) {
	ids, err := r.store.Members(ctx, collection, docstore.By("profile", profileID))
	if err != nil {
		return nil, err
	}
	for i := len(ids) - 1; i >= 0; i-- {
		a, err := r.Get(ctx, ids[i])
		if errors.Is(err, domain.ErrAuditNotFound) {
			continue
		}
		return a, err
	}
	return nil, domain.ErrAuditNotFound
}

func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, collection)
}
