package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	auditdomain "github.com/luxbiz/biz-optimizer/internal/audit/domain"
	"github.com/luxbiz/biz-optimizer/internal/cart/domain"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
	"github.com/luxbiz/biz-optimizer/internal/platform/validation"
)

type CartStore interface {
	Create(ctx context.Context, item *domain.CartItem) error
	Update(ctx context.Context, item *domain.CartItem) error
	Get(ctx context.Context, id int64) (*domain.CartItem, error)
	Delete(ctx context.Context, item *domain.CartItem) error
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)
}

// AuditGetter resolves an audit on behalf of its owner.
type AuditGetter interface {
	Get(ctx context.Context, userID, auditID int64) (*auditdomain.Audit, error)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, p jobs.EnqueueParams) (*jobs.Job, error)
}

type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type CartService struct {
	items  CartStore
	audits AuditGetter
	queue  Enqueuer
	locker Locker
}

func NewCartService(items CartStore, audits AuditGetter, queue Enqueuer, locker Locker) *CartService {
	return &CartService{items: items, audits: audits, queue: queue, locker: locker}
}

// Add puts a catalog service in the caller's cart at the catalog price.
func (s *CartService) Add(ctx context.Context, userID int64, in domain.AddInput) (*domain.CartItem, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	svc, ok := domain.LookupService(in.ServiceType)
	if !ok {
		return nil, fmt.Errorf("%w %q", domain.ErrUnknownService, in.ServiceType)
	}

	if in.AuditID != nil {
		if _, err := s.audits.Get(ctx, userID, *in.AuditID); err != nil {
			return nil, err
		}
	}

	item := &domain.CartItem{
		UserID:      userID,
		ServiceType: svc.Type,
		Title:       svc.Title,
		Description: svc.Description,
		Price:       svc.Price,
		AuditID:     in.AuditID,
		IssueTitle:  strings.TrimSpace(in.IssueTitle),
		Status:      domain.StatusInCart,
		CreatedAt:   time.Now().UTC(),
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		item.Title = t
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		item.Description = d
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove deletes an item that is still in the caller's cart. It shares the
// checkout lock so a purchased item is never deleted.
func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	return s.locker.WithLock(ctx, checkoutLockKey(userID), func(ctx context.Context) error {
		item, err := s.owned(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if item.Status != domain.StatusInCart {
			return domain.ErrItemNotInCart
		}
		return s.items.Delete(ctx, item)
	})
}

func checkoutLockKey(userID int64) string {
	return fmt.Sprintf("lock:checkout:user:%d", userID)
}

// List returns the caller's items, optionally only those with status.
func (s *CartService) List(ctx context.Context, userID int64, status string) ([]domain.CartItem, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return items, nil
	}

	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.Status == status {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *CartService) Get(ctx context.Context, userID, itemID int64) (*domain.CartItem, error) {
	return s.owned(ctx, userID, itemID)
}

// Checkout purchases everything in the caller's cart and schedules an
// auto-fix for each item tied to an audit. It does not wait for the fixes.
func (s *CartService) Checkout(ctx context.Context, userID int64) (*domain.CheckoutResult, error) {
	var result *domain.CheckoutResult
	err := s.locker.WithLock(ctx, checkoutLockKey(userID), func(ctx context.Context) error {
		inCart, err := s.List(ctx, userID, domain.StatusInCart)
		if err != nil {
			return err
		}
		if len(inCart) == 0 {
			return domain.ErrCartEmpty
		}

		res := &domain.CheckoutResult{
			OrderID:   uuid.New().String(),
			Total:     decimal.Zero,
			FixJobIDs: []string{},
		}
		now := time.Now().UTC()

		for i := range inCart {
			item := &inCart[i]
			if err := item.Advance(domain.StatusPurchased); err != nil {
				return err
			}
			item.OrderID = res.OrderID
			item.PurchasedAt = &now
			if err := s.items.Update(ctx, item); err != nil {
				return err
			}
			res.ItemCount++
			res.Total = res.Total.Add(item.Price)
		}

		for i := range inCart {
			item := &inCart[i]
			if item.AuditID == nil {
				continue
			}
			job, err := s.queue.Enqueue(ctx, jobs.EnqueueParams{
				Type:    domain.JobTypeAutofix,
				UserID:  userID,
				Payload: domain.AutofixPayload{ItemID: item.ID},
			})
			if err != nil {
				logging.FromContext(ctx).LogErrorf("cart.checkout", "schedule auto-fix for item %d: %v", item.ID, err)
				item.FixError = "auto-fix could not be scheduled"
			} else {
				item.FixJobID = job.ID
				res.FixJobIDs = append(res.FixJobIDs, job.ID)
			}
			if err := s.items.Update(ctx, item); err != nil {
				logging.FromContext(ctx).LogError("cart.checkout", err)
			}
		}

		logging.FromContext(ctx).LogInfof("cart.checkout", "order %s: %d items, total %s", res.OrderID, res.ItemCount, res.Total.StringFixed(2))
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CartService) owned(ctx context.Context, userID, itemID int64) (*domain.CartItem, error) {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}
