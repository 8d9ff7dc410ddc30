package scanner

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
)

type Handler struct {
	scanner *Scanner
}

func NewHandler(s *Scanner) *Handler {
	return &Handler{scanner: s}
}

type scanReq struct {
	BusinessName string `json:"businessName" binding:"required"`
	Location     string `json:"location" binding:"required"`
}

// Register mounts the scan route. Callers put a rate limiter on rg; the
// route needs no sign-in.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/quick", h.quick)
}

func (h *Handler) quick(c *gin.Context) {
	var req scanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "businessName and location are required")
		return
	}
	res, err := h.scanner.Scan(c.Request.Context(), Input{BusinessName: req.BusinessName, Location: req.Location})
	if err != nil {
		httpapi.RespondError(c, "scanner.quick", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": res})
}
