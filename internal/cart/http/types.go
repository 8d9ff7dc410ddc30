package http

import "github.com/luxbiz/biz-optimizer/internal/cart/service"

type Handler struct {
	cart *service.CartService
}

func New(cart *service.CartService) *Handler {
	return &Handler{cart: cart}
}

type addReq struct {
	ServiceType string `json:"serviceType" binding:"required"`
	AuditID     *int64 `json:"auditId"`
	IssueTitle  string `json:"issueTitle"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
