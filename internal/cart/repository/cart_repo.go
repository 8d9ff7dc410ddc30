package repository

import (
	"context"
	"errors"

	"github.com/luxbiz/biz-optimizer/internal/cart/domain"
	"github.com/luxbiz/biz-optimizer/internal/docstore"
)

const collection = "cart_items"

type CartRepository struct {
	store *docstore.Store
}

func NewCartRepository(store *docstore.Store) *CartRepository {
	return &CartRepository{store: store}
}

func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	id, err := r.store.NextID(ctx, collection)
	if err != nil {
		return err
	}
	item.ID = id
	return r.store.Put(ctx, collection, id, item, docstore.By("user", item.UserID))
}

func (r *CartRepository) Update(ctx context.Context, item *domain.CartItem) error {
	return r.store.Put(ctx, collection, item.ID, item, docstore.By("user", item.UserID))
}

func (r *CartRepository) Get(ctx context.Context, id int64) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := r.store.Get(ctx, collection, id, &item); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) Delete(ctx context.Context, item *domain.CartItem) error {
	err := r.store.Delete(ctx, collection, item.ID, docstore.By("user", item.UserID))
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrItemNotFound
	}
	return err
}

func (r *CartRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	return docstore.ListBy[domain.CartItem](ctx, r.store, collection, docstore.By("user", userID))
}
