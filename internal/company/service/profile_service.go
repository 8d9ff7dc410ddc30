package service

import (
	"context"
	"fmt"
	"strings"

	authdomain "github.com/luxbiz/biz-optimizer/internal/auth/domain"
	"github.com/luxbiz/biz-optimizer/internal/company/domain"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
	"github.com/luxbiz/biz-optimizer/internal/platform/validation"
)

type ProfileStore interface {
	Create(ctx context.Context, p *domain.CompanyProfile) error
	Get(ctx context.Context, id int64) (*domain.CompanyProfile, error)
	Update(ctx context.Context, p *domain.CompanyProfile) error
	Delete(ctx context.Context, p *domain.CompanyProfile) error
	ListByUser(ctx context.Context, userID int64) ([]domain.CompanyProfile, error)
}

// ProfileService handles company profile business logic
type ProfileService struct {
	repo ProfileStore
}

func NewProfileService(repo ProfileStore) *ProfileService {
	return &ProfileService{repo: repo}
}

// Create stores a new profile for user. Non-admin accounts hold at most one.
func (s *ProfileService) Create(ctx context.Context, user *authdomain.User, in domain.CreateInput) (*domain.CompanyProfile, error) {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Industry = strings.TrimSpace(in.Industry)
	in.Location = strings.TrimSpace(in.Location)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		existing, err := s.repo.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, domain.ErrProfileExists
		}
	}

	p := &domain.CompanyProfile{
		UserID:         user.ID,
		BusinessName:   in.BusinessName,
		Industry:       in.Industry,
		Location:       in.Location,
		Website:        strings.TrimSpace(in.Website),
		Phone:          strings.TrimSpace(in.Phone),
		Description:    in.Description,
		Services:       in.Services,
		TargetAudience: in.TargetAudience,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) List(ctx context.Context, userID int64) ([]domain.CompanyProfile, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns the profile if userID owns it. Other users see ErrProfileNotFound.
func (s *ProfileService) Get(ctx context.Context, userID, id int64) (*domain.CompanyProfile, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, userID, id int64, in domain.UpdateInput) (*domain.CompanyProfile, error) {
	in.BusinessName = trimmed(in.BusinessName)
	in.Industry = trimmed(in.Industry)
	in.Location = trimmed(in.Location)
	in.Website = trimmed(in.Website)
	in.Phone = trimmed(in.Phone)
	for name, v := range map[string]*string{
		"businessName": in.BusinessName,
		"industry":     in.Industry,
		"location":     in.Location,
	} {
		if v != nil && *v == "" {
			return nil, fmt.Errorf("%w: %s must not be empty", apperr.ErrValidation, name)
		}
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	in.Apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, userID, id int64) error {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, p)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
