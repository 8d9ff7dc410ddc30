package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/messages", h.send)
	rg.GET("/messages", h.history)
}
