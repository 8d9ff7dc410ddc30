package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("/:id/messages", h.reply)
	rg.PATCH("/:id/status", h.updateStatus)
}
