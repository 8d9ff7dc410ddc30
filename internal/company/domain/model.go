package domain

import (
	"fmt"
	"time"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

var (
	ErrProfileNotFound = fmt.Errorf("company profile %w", apperr.ErrNotFound)
	ErrProfileExists   = fmt.Errorf("%w: a company profile already exists for this account", apperr.ErrConflict)
)

// CompanyProfile describes one business owned by a user.
type CompanyProfile struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	BusinessName   string    `json:"business_name"`
	Industry       string    `json:"industry"`
	Location       string    `json:"location"`
	Website        string    `json:"website,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Description    string    `json:"description,omitempty"`
	Services       []string  `json:"services,omitempty"`
	TargetAudience string    `json:"target_audience,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateInput struct {
	BusinessName   string   `validate:"required,max=200"`
	Industry       string   `validate:"required,max=200"`
	Location       string   `validate:"required,max=200"`
	Website        string   `validate:"omitempty,max=500"`
	Phone          string   `validate:"omitempty,max=50"`
	Description    string   `validate:"omitempty,max=5000"`
	Services       []string `validate:"omitempty,max=50,dive,max=200"`
	TargetAudience string   `validate:"omitempty,max=1000"`
}

// UpdateInput carries only the fields the caller wants changed.
type UpdateInput struct {
	BusinessName   *string   `validate:"omitnil,max=200"`
	Industry       *string   `validate:"omitnil,max=200"`
	Location       *string   `validate:"omitnil,max=200"`
	Website        *string   `validate:"omitempty,max=500"`
	Phone          *string   `validate:"omitempty,max=50"`
	Description    *string   `validate:"omitempty,max=5000"`
	Services       *[]string `validate:"omitempty"`
	TargetAudience *string   `validate:"omitempty,max=1000"`
}

// Apply copies the provided fields onto p.
func (in UpdateInput) Apply(p *CompanyProfile) {
	if in.BusinessName != nil {
		p.BusinessName = *in.BusinessName
	}
	if in.Industry != nil {
		p.Industry = *in.Industry
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Services != nil {
		p.Services = *in.Services
	}
	if in.TargetAudience != nil {
		p.TargetAudience = *in.TargetAudience
	}
}
