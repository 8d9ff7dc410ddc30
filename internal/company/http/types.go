package http

import "github.com/luxbiz/biz-optimizer/internal/company/service"

// Handler bundles the dependencies for company profile endpoints.
type Handler struct {
	svc *service.ProfileService
}

func New(svc *service.ProfileService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	BusinessName   string   `json:"businessName" binding:"required"`
	Industry       string   `json:"industry" binding:"required"`
	Location       string   `json:"location" binding:"required"`
	Website        string   `json:"website"`
	Phone          string   `json:"phone"`
	Description    string   `json:"description"`
	Services       []string `json:"services"`
	TargetAudience string   `json:"targetAudience"`
}

type updateReq struct {
	BusinessName   *string   `json:"businessName"`
	Industry       *string   `json:"industry"`
	Location       *string   `json:"location"`
	Website        *string   `json:"website"`
	Phone          *string   `json:"phone"`
	Description    *string   `json:"description"`
	Services       *[]string `json:"services"`
	TargetAudience *string   `json:"targetAudience"`
}
