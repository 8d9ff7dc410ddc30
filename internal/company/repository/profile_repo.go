package repository

import (
	"context"
	"errors"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/docstore"
)

const collection = "company_profiles"

type ProfileRepository struct {
	store *docstore.Store
}

func NewProfileRepository(store *docstore.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.CompanyProfile) error {
	id, err := r.store.NextID(ctx, collection)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return r.store.Put(ctx, collection, id, p, docstore.By("user", p.UserID))
}

func (r *ProfileRepository) Get(ctx context.Context, id int64) (*domain.CompanyProfile, error) {
	var p domain.CompanyProfile
	if err := r.store.Get(ctx, collection, id, &p); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.CompanyProfile) error {
	p.UpdatedAt = time.Now().UTC()
	return r.store.Put(ctx, collection, p.ID, p, docstore.By("user", p.UserID))
}

func (r *ProfileRepository) Delete(ctx context.Context, p *domain.CompanyProfile) error {
	err := r.store.Delete(ctx, collection, p.ID, docstore.By("user", p.UserID))
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrProfileNotFound
	}
	return err
}

// ListByUser returns a user's profiles ordered by id.
func (r *ProfileRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CompanyProfile, error) {
	return docstore.ListBy[domain.CompanyProfile](ctx, r.store, collection, docstore.By("user", userID))
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, collection)
}
