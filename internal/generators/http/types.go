package http

import "github.com/luxbiz/biz-optimizer/internal/generators/service"

type Handler struct {
	generators *service.GeneratorService
}

func New(generators *service.GeneratorService) *Handler {
	return &Handler{generators: generators}
}

type adReq struct {
	CompanyProfileID int64  `json:"companyProfileId" binding:"required,gt=0"`
	Platform         string `json:"platform" binding:"required"`
	Goal             string `json:"goal"`
}

type growthReq struct {
	CompanyProfileID int64    `json:"companyProfileId" binding:"required,gt=0"`
	MonthlyRevenue   *float64 `json:"monthlyRevenue"`
}

type rankResearchReq struct {
	CompanyProfileID int64    `json:"companyProfileId" binding:"required,gt=0"`
	Keywords         []string `json:"keywords" binding:"required"`
}

type rankFixReq struct {
	CompanyProfileID int64  `json:"companyProfileId" binding:"required,gt=0"`
	Keyword          string `json:"keyword" binding:"required"`
}

type shopifyReq struct {
	CompanyProfileID int64  `json:"companyProfileId" binding:"required,gt=0"`
	StoreURL         string `json:"storeUrl" binding:"required"`
}

type leadsReq struct {
	CompanyProfileID int64 `json:"companyProfileId" binding:"required,gt=0"`
	Count            int   `json:"count"`
}

type seoContentReq struct {
	CompanyProfileID int64  `json:"companyProfileId" binding:"required,gt=0"`
	Issue            string `json:"issue" binding:"required"`
	Format           string `json:"format"`
}
