package jobs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
)

type jobGetter interface {
	Get(ctx context.Context, id string) (*Job, error)
}

type HTTPHandler struct {
	store jobGetter
}

func NewHTTPHandler(store jobGetter) *HTTPHandler {
	return &HTTPHandler{store: store}
}

func (h *HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/:id", h.get)
}

// get reports job status to its owner only.
func (h *HTTPHandler) get(c *gin.Context) {
	job, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err == nil && job.UserID != auth.UserID(c) {
		err = ErrJobNotFound
	}
	if err != nil {
		httpapi.RespondError(c, "jobs.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "job": job})
}
