package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/catalog", h.catalog)
	rg.POST("/checkout", h.checkout)
	rg.POST("", h.add)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.DELETE("/:id", h.remove)
}
