package http

import "github.com/luxbiz/biz-optimizer/internal/audit/service"

type Handler struct {
	orchestrator *service.Orchestrator
}

func New(orchestrator *service.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

type createReq struct {
	CompanyProfileID int64 `json:"companyProfileId" binding:"required,gt=0"`
}
