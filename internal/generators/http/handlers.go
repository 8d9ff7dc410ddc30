package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/generators/domain"
)

func respond(c *gin.Context, op string, result any, err error) {
	if err != nil {
		httpapi.RespondError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": result})
}

func (h *Handler) ads(c *gin.Context) {
	var req adReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId and platform are required")
		return
	}
	out, err := h.generators.GenerateAds(c.Request.Context(), auth.UserID(c), domain.AdInput{
		CompanyProfileID: req.CompanyProfileID,
		Platform:         req.Platform,
		Goal:             req.Goal,
	})
	respond(c, domain.AdCreator, out, err)
}

func (h *Handler) growth(c *gin.Context) {
	var req growthReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId is required")
		return
	}
	out, err := h.generators.AnalyzeGrowth(c.Request.Context(), auth.UserID(c), domain.GrowthInput{
		CompanyProfileID: req.CompanyProfileID,
		MonthlyRevenue:   req.MonthlyRevenue,
	})
	respond(c, domain.RevenueGrowth, out, err)
}

func (h *Handler) rankResearch(c *gin.Context) {
	var req rankResearchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId and keywords are required")
		return
	}
	out, err := h.generators.ResearchRank(c.Request.Context(), auth.UserID(c), domain.RankResearchInput{
		CompanyProfileID: req.CompanyProfileID,
		Keywords:         req.Keywords,
	})
	respond(c, domain.RankResearch, out, err)
}

func (h *Handler) rankFix(c *gin.Context) {
	var req rankFixReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId and keyword are required")
		return
	}
	out, err := h.generators.FixRank(c.Request.Context(), auth.UserID(c), domain.RankFixInput{
		CompanyProfileID: req.CompanyProfileID,
		Keyword:          req.Keyword,
	})
	respond(c, domain.RankFix, out, err)
}

func (h *Handler) shopify(c *gin.Context) {
	var req shopifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId and storeUrl are required")
		return
	}
	out, err := h.generators.AuditShopify(c.Request.Context(), auth.UserID(c), domain.ShopifyInput{
		CompanyProfileID: req.CompanyProfileID,
		StoreURL:         req.StoreURL,
	})
	respond(c, domain.ShopifyAudit, out, err)
}

func (h *Handler) leads(c *gin.Context) {
	var req leadsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId is required")
		return
	}
	out, err := h.generators.GenerateLeads(c.Request.Context(), auth.UserID(c), domain.LeadsInput{
		CompanyProfileID: req.CompanyProfileID,
		Count:            req.Count,
	})
	respond(c, domain.LeadGeneration, out, err)
}

func (h *Handler) seoContent(c *gin.Context) {
	var req seoContentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId and issue are required")
		return
	}
	out, err := h.generators.WriteSEOContent(c.Request.Context(), auth.UserID(c), domain.SEOContentInput{
		CompanyProfileID: req.CompanyProfileID,
		Issue:            req.Issue,
		Format:           req.Format,
	})
	respond(c, domain.SEOContent, out, err)
}
