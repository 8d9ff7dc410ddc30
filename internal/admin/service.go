// Package admin exposes platform management to admin users.
package admin

import (
	"context"

	authdomain "github.com/luxbiz/biz-optimizer/internal/auth/domain"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

type UserManager interface {
	ListUsers(ctx context.Context, limit, offset int) ([]authdomain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	SetRole(ctx context.Context, userID int64, role string) (*authdomain.User, error)
	SetTier(ctx context.Context, userID int64, tier string) (*authdomain.User, error)
}

// Counter reports how many documents a collection has ever held.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Stats struct {
	Users          int64 `json:"users"`
	Profiles       int64 `json:"profiles"`
	Audits         int64 `json:"audits"`
	SupportTickets int64 `json:"supportTickets"`
}

type Service struct {
	users    UserManager
	profiles Counter
	audits   Counter
	tickets  Counter
}

func NewService(users UserManager, profiles, audits, tickets Counter) *Service {
	return &Service{users: users, profiles: profiles, audits: audits, tickets: tickets}
}

func (s *Service) Users(ctx context.Context, limit, offset int) ([]authdomain.User, int64, error) {
	users, err := s.users.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *Service) SetTier(ctx context.Context, actor *authdomain.User, userID int64, tier string) (*authdomain.User, error) {
	u, err := s.users.SetTier(ctx, userID, tier)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).LogInfof("admin.set_tier", "user %d set tier of user %d to %s", actor.ID, userID, tier)
	return u, nil
}

func (s *Service) SetRole(ctx context.Context, actor *authdomain.User, userID int64, role string) (*authdomain.User, error) {
	u, err := s.users.SetRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).LogInfof("admin.set_role", "user %d set role of user %d to %s", actor.ID, userID, role)
	return u, nil
}

// Stats counts are upper bounds for document collections: ids are never
// reused, so deleted documents are still counted.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.Users, err = s.users.CountUsers(ctx); err != nil {
		return nil, err
	}
	if st.Profiles, err = s.profiles.Count(ctx); err != nil {
		return nil, err
	}
	if st.Audits, err = s.audits.Count(ctx); err != nil {
		return nil, err
	}
	if st.SupportTickets, err = s.tickets.Count(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
