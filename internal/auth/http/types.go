package http

import (
	"context"

	"github.com/luxbiz/biz-optimizer/internal/auth/domain"
)

type accountReader interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

// Handler serves the caller's own account.
type Handler struct {
	accounts accountReader
}

func New(accounts accountReader) *Handler {
	return &Handler{accounts: accounts}
}
