package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/luxbiz/biz-optimizer/internal/admin"
	"github.com/luxbiz/biz-optimizer/internal/api/http/middleware"
	audithttp "github.com/luxbiz/biz-optimizer/internal/audit/http"
	auditservice "github.com/luxbiz/biz-optimizer/internal/audit/service"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	authhttp "github.com/luxbiz/biz-optimizer/internal/auth/http"
	authmw "github.com/luxbiz/biz-optimizer/internal/auth/middleware"
	authservice "github.com/luxbiz/biz-optimizer/internal/auth/service"
	carthttp "github.com/luxbiz/biz-optimizer/internal/cart/http"
	cartservice "github.com/luxbiz/biz-optimizer/internal/cart/service"
	chathttp "github.com/luxbiz/biz-optimizer/internal/chat/http"
	chatservice "github.com/luxbiz/biz-optimizer/internal/chat/service"
	companyhttp "github.com/luxbiz/biz-optimizer/internal/company/http"
	companyservice "github.com/luxbiz/biz-optimizer/internal/company/service"
	genhttp "github.com/luxbiz/biz-optimizer/internal/generators/http"
	genservice "github.com/luxbiz/biz-optimizer/internal/generators/service"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	reporthttp "github.com/luxbiz/biz-optimizer/internal/reports/http"
	reportservice "github.com/luxbiz/biz-optimizer/internal/reports/service"
	"github.com/luxbiz/biz-optimizer/internal/scanner"
	supporthttp "github.com/luxbiz/biz-optimizer/internal/support/http"
	supportservice "github.com/luxbiz/biz-optimizer/internal/support/service"
)

// Public quick scans are limited per client IP.
var scanLimit = rate.Every(6 * time.Second)

const scanBurst = 5

type V1Deps struct {
	Verifier auth.Verifier

	Auth         *authservice.AuthService
	Profiles     *companyservice.ProfileService
	Orchestrator *auditservice.Orchestrator
	Cart         *cartservice.CartService
	Generators   *genservice.GeneratorService
	Chat         *chatservice.ChatService
	Support      *supportservice.SupportService
	Reports      *reportservice.ReportService
	Scanner      *scanner.Scanner
	Admin        *admin.Service
	Jobs         *jobs.Store
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	scan := api.Group("/scan")
	scan.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(scanLimit, scanBurst)))
	scanner.NewHandler(dep.Scanner).Register(scan)

	authed := api.Group("")
	authed.Use(authmw.RequireUser(dep.Verifier, dep.Auth))

	authhttp.New(dep.Auth).Register(authed.Group("/auth"))
	companyhttp.New(dep.Profiles).Register(authed.Group("/company-profiles"))
	audithttp.New(dep.Orchestrator).Register(authed.Group("/audits"))
	genhttp.New(dep.Generators).Register(authed.Group("/tools"))
	carthttp.New(dep.Cart).Register(authed.Group("/cart"))
	chathttp.New(dep.Chat).Register(authed.Group("/chat"))
	supporthttp.New(dep.Support).Register(authed.Group("/support"))
	reporthttp.New(dep.Reports).Register(authed.Group("/reports"))
	jobs.NewHTTPHandler(dep.Jobs).Register(authed.Group("/jobs"))

	adminGroup := authed.Group("/admin")
	adminGroup.Use(authmw.RequireAdmin())
	admin.NewHandler(dep.Admin).Register(adminGroup)
}
