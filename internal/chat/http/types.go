package http

import "github.com/luxbiz/biz-optimizer/internal/chat/service"

type Handler struct {
	chat *service.ChatService
}

func New(chat *service.ChatService) *Handler {
	return &Handler{chat: chat}
}

type sendReq struct {
	AuditID *int64 `json:"auditId"`
	Message string `json:"message" binding:"required"`
}
