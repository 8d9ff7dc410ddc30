package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/cart/domain"
)

func (h *Handler) catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "services": domain.Catalog()})
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "serviceType is required")
		return
	}

	item, err := h.cart.Add(c.Request.Context(), auth.UserID(c), domain.AddInput{
		ServiceType: req.ServiceType,
		AuditID:     req.AuditID,
		IssueTitle:  req.IssueTitle,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		httpapi.RespondError(c, "cart.add", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": item.ID, "item": item})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.cart.List(c.Request.Context(), auth.UserID(c), c.Query("status"))
	if err != nil {
		httpapi.RespondError(c, "cart.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	item, err := h.cart.Get(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		httpapi.RespondError(c, "cart.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "item": item})
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.cart.Remove(c.Request.Context(), auth.UserID(c), id); err != nil {
		httpapi.RespondError(c, "cart.remove", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) checkout(c *gin.Context) {
	res, err := h.cart.Checkout(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpapi.RespondError(c, "cart.checkout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"orderId":   res.OrderID,
		"itemCount": res.ItemCount,
		"total":     res.Total.StringFixed(2),
		"fixJobIds": res.FixJobIDs,
	})
}
