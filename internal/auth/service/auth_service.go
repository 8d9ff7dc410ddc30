package service

import (
	"context"
	"fmt"

	"github.com/luxbiz/biz-optimizer/internal/auth/domain"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

type UserStore interface {
	EnsureUser(ctx context.Context, id domain.Identity) (*domain.User, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	SetRole(ctx context.Context, userID int64, role string) (*domain.User, error)
	SetTier(ctx context.Context, userID int64, tier string) (*domain.User, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// EnsureUser resolves a verified identity to an application user.
func (s *AuthService) EnsureUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.users.EnsureUser(ctx, id)
}

func (s *AuthService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

func (s *AuthService) SetRole(ctx context.Context, userID int64, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be one of [user admin]", apperr.ErrValidation)
	}
	return s.users.SetRole(ctx, userID, role)
}

func (s *AuthService) SetTier(ctx context.Context, userID int64, tier string) (*domain.User, error) {
	if !domain.ValidTier(tier) {
		return nil, fmt.Errorf("%w: tier must be one of [free pro agency]", apperr.ErrValidation)
	}
	return s.users.SetTier(ctx, userID, tier)
}
