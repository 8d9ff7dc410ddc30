package domain

import (
	"fmt"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	TierFree   = "free"
	TierPro    = "pro"
	TierAgency = "agency"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrInvalidToken = fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	ErrMissingToken = fmt.Errorf("missing authorization token: %w", apperr.ErrUnauthorized)
)

// User is an account known to the application. ExternalID is the subject
// assigned by the identity provider.
type User struct {
	ID           int64      `json:"id"`
	ExternalID   string     `json:"external_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Tier         string     `json:"tier"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastSignedIn *time.Time `json:"last_signed_in,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

func ValidTier(t string) bool {
	return t == TierFree || t == TierPro || t == TierAgency
}
