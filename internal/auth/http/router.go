package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.POST("/logout", h.Logout)
}
