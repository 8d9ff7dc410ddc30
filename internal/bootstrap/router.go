package bootstrap

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/api/http/middleware"
	"github.com/luxbiz/biz-optimizer/internal/api/http/routes"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/platform/metrics"
)

func BuildRouter(app *App, verifier auth.Verifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(app.Config.Server.AllowedOrigins, app.Config.IsProduction())))

	httpapi.NewHealthHandler(app.Config.App.ServiceName, app.Config.App.Version, app.Pool, app.Redis).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	routes.RegisterV1(r, routes.V1Deps{
		Verifier:     verifier,
		Auth:         app.Auth,
		Profiles:     app.Profiles,
		Orchestrator: app.Orchestrator,
		Cart:         app.Cart,
		Generators:   app.Generators,
		Chat:         app.Chat,
		Support:      app.Support,
		Reports:      app.Reports,
		Scanner:      app.Scanner,
		Admin:        app.Admin,
		Jobs:         app.Jobs,
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "code": "NOT_FOUND", "error": "route not found"})
	})
	return r
}

// corsConfig allows every origin outside production; production uses the
// configured allowlist only.
func corsConfig(origins []string, production bool) cors.Config {
	cfg := cors.DefaultConfig()
	if production {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowAllOrigins = true
	}
	cfg.AddAllowMethods("PATCH")
	cfg.AddAllowHeaders("Authorization", "X-Request-Id")
	cfg.AddExposeHeaders("Content-Disposition", "X-Request-Id")
	return cfg
}
