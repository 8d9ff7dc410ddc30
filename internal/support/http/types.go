package http

import "github.com/luxbiz/biz-optimizer/internal/support/service"

type Handler struct {
	support *service.SupportService
}

func New(support *service.SupportService) *Handler {
	return &Handler{support: support}
}

type createReq struct {
	Subject  string `json:"subject" binding:"required"`
	Category string `json:"category" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

type replyReq struct {
	Body string `json:"body" binding:"required"`
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}
