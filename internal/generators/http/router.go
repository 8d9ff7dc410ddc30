package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/ads", h.ads)
	rg.POST("/revenue-growth", h.growth)
	rg.POST("/google-rank/research", h.rankResearch)
	rg.POST("/google-rank/fix", h.rankFix)
	rg.POST("/shopify-audit", h.shopify)
	rg.POST("/leads", h.leads)
	rg.POST("/seo-content", h.seoContent)
}
