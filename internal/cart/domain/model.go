package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

const JobTypeAutofix = "cart.autofix"

const (
	StatusInCart     = "in_cart"
	StatusPurchased  = "purchased"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

var statusOrder = map[string]int{
	StatusInCart:     0,
	StatusPurchased:  1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// CanTransition reports whether an item may move from one status to another.
// Items only move forward, one step at a time.
func CanTransition(from, to string) bool {
	f, ok1 := statusOrder[from]
	t, ok2 := statusOrder[to]
	return ok1 && ok2 && t == f+1
}

func ValidStatus(s string) bool {
	_, ok := statusOrder[s]
	return ok
}

var (
	ErrCartEmpty       = fmt.Errorf("%w: cart is empty", apperr.ErrValidation)
	ErrItemNotFound    = fmt.Errorf("cart item %w", apperr.ErrNotFound)
	ErrItemNotInCart   = fmt.Errorf("%w: item is no longer in the cart", apperr.ErrConflict)
	ErrUnknownService  = fmt.Errorf("%w: unknown service type", apperr.ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown status", apperr.ErrValidation)
	ErrInvalidProgress = fmt.Errorf("%w: status cannot move backwards or skip a step", apperr.ErrConflict)
)

// Service is one purchasable optimization service.
type Service struct {
	Type        string          `json:"serviceType"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

var catalog = []Service{
	{Type: "seo_fix", Title: "SEO Fix", Description: "Resolve one on-page SEO issue found in your audit.", Price: decimal.RequireFromString("49.00")},
	{Type: "google_business_optimization", Title: "Google Business Optimization", Description: "Complete and optimize your Google Business Profile.", Price: decimal.RequireFromString("99.00")},
	{Type: "ai_visibility_boost", Title: "AI Visibility Boost", Description: "Structured content so AI assistants can recommend you.", Price: decimal.RequireFromString("149.00")},
	{Type: "review_strategy", Title: "Review Strategy", Description: "A plan and templates to grow and answer reviews.", Price: decimal.RequireFromString("79.00")},
	{Type: "ad_campaign_setup", Title: "Ad Campaign Setup", Description: "A ready-to-launch local ad campaign.", Price: decimal.RequireFromString("199.00")},
	{Type: "website_content_rewrite", Title: "Website Content Rewrite", Description: "Rewrite key pages for search and AI readability.", Price: decimal.RequireFromString("129.00")},
}

// Catalog returns the purchasable services.
func Catalog() []Service {
	out := make([]Service, len(catalog))
	copy(out, catalog)
	return out
}

func ServiceTypes() []string {
	out := make([]string, len(catalog))
	for i, s := range catalog {
		out[i] = s.Type
	}
	return out
}

func LookupService(serviceType string) (Service, bool) {
	for _, s := range catalog {
		if s.Type == serviceType {
			return s, true
		}
	}
	return Service{}, false
}

type CartItem struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	ServiceType string          `json:"service_type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	AuditID     *int64          `json:"audit_id,omitempty"`
	IssueTitle  string          `json:"issue_title,omitempty"`
	Status      string          `json:"status"`
	OrderID     string          `json:"order_id,omitempty"`
	FixJobID    string          `json:"fix_job_id,omitempty"`
	FixResult   string          `json:"fix_result,omitempty"`
	FixError    string          `json:"fix_error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	PurchasedAt *time.Time      `json:"purchased_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Advance moves the item to status if that is the next step.
func (i *CartItem) Advance(status string) error {
	if !CanTransition(i.Status, status) {
		return ErrInvalidProgress
	}
	i.Status = status
	return nil
}

type AddInput struct {
	ServiceType string `validate:"required"`
	AuditID     *int64 `validate:"omitnil,gt=0"`
	IssueTitle  string `validate:"max=300"`
	Title       string `validate:"max=200"`
	Description string `validate:"max=2000"`
}

type CheckoutResult struct {
	OrderID   string          `json:"orderId"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
	FixJobIDs []string        `json:"fixJobIds"`
}

// AutofixPayload is the cart.autofix job payload.
type AutofixPayload struct {
	ItemID int64 `json:"item_id"`
}
