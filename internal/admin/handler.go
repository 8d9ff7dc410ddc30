package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the admin routes. rg must already require an admin.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/users", h.users)
	rg.PATCH("/users/:id/tier", h.setTier)
	rg.PATCH("/users/:id/role", h.setRole)
	rg.GET("/stats", h.stats)
}

func (h *Handler) users(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.svc.Users(c.Request.Context(), limit, offset)
	if err != nil {
		httpapi.RespondError(c, "admin.users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users, "total": total})
}

type tierReq struct {
	Tier string `json:"tier" binding:"required"`
}

func (h *Handler) setTier(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	var req tierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "tier is required")
		return
	}
	u, err := h.svc.SetTier(c.Request.Context(), auth.CurrentUser(c), id, req.Tier)
	if err != nil {
		httpapi.RespondError(c, "admin.set_tier", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

type roleReq struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) setRole(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "role is required")
		return
	}
	u, err := h.svc.SetRole(c.Request.Context(), auth.CurrentUser(c), id, req.Role)
	if err != nil {
		httpapi.RespondError(c, "admin.set_role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, "admin.stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": st})
}
