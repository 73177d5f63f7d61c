/*
Package api implements the HTTP surface over the ingest/engine/reports/
sync packages: multipart CSV upload, preview recalculation, export, and
the Danløn OAuth2 connection and sync endpoints.

ROUTE STRUCTURE:
    /health /ready /live                                  (global middleware only, no rate limiting)
    /api/preview, /api/mark-absence/*, /api/export/*      (C1-C7, C15)
    /danlon/*                                             (C8, C9, C11, C12)
*/
package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/middleware"
)

// Router wires every handler and middleware chain into a gin.Engine.
type Router struct {
	appConfig *config.AppConfig
	preview   *PreviewHandler
	export    *ExportHandler
	danlon    *DanlonHandler
	health    *HealthHandler
}

// NewRouter creates a Router.
func NewRouter(appConfig *config.AppConfig, preview *PreviewHandler, export *ExportHandler, danlon *DanlonHandler, health *HealthHandler) *Router {
	return &Router{
		appConfig: appConfig,
		preview:   preview,
		export:    export,
		danlon:    danlon,
		health:    health,
	}
}

// Setup builds the gin.Engine: global middleware, then the health,
// preview/export, and Danløn route groups.
func (r *Router) Setup(log *logrus.Logger) *gin.Engine {
	if r.appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinLogger(log))

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(r.appConfig.CORSAllowedOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-CSRF-Token", "X-User-Id"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	security := middleware.NewSecurityMiddleware(r.appConfig)
	engine.Use(security.Headers())

	csrf := middleware.NewCSRFMiddleware(r.appConfig)
	engine.Use(csrf.Protect())

	engine.GET("/health", r.health.HealthCheck)
	engine.GET("/ready", r.health.ReadyCheck)
	engine.GET("/live", r.health.LivenessCheck)

	apiLimiter := middleware.APIRateLimiter(r.appConfig)
	apiGroup := engine.Group("/api")
	apiGroup.Use(apiLimiter.Limit())
	{
		apiGroup.POST("/preview", r.preview.Preview)
		apiGroup.POST("/mark-absence/:session_id", r.preview.MarkAbsence)
		apiGroup.POST("/export/:session_id", r.export.ExportCSV)
		apiGroup.GET("/export/:session_id/xlsx", r.export.ExportXLSX)
		apiGroup.GET("/export/:session_id/pdf", r.export.ExportPDF)
	}

	// The Danløn surface crosses an external trust boundary (OAuth
	// redirects, upstream token exchange) so it gets the tighter of the
	// two configured rate-limit profiles.
	danlonLimiter := middleware.AuthRateLimiter(r.appConfig)
	danlonGroup := engine.Group("/danlon")
	danlonGroup.Use(danlonLimiter.Limit())
	{
		danlonGroup.GET("/connect", r.danlon.Connect)
		danlonGroup.GET("/callback", r.danlon.Callback)
		danlonGroup.GET("/success", r.danlon.Success)
		danlonGroup.GET("/pending", r.danlon.Pending)
		danlonGroup.POST("/complete", r.danlon.Complete)
		danlonGroup.POST("/disconnect", r.danlon.Disconnect)
		danlonGroup.GET("/status", r.danlon.Status)
		danlonGroup.GET("/paycode-mapping", r.danlon.GetPayCodeMapping)
		danlonGroup.PUT("/paycode-mapping", r.danlon.PutPayCodeMapping)
		danlonGroup.GET("/employee-mapping", r.danlon.GetEmployeeMapping)
		danlonGroup.PUT("/employee-mapping", r.danlon.PutEmployeeMapping)
		danlonGroup.POST("/sync/:session_id", r.danlon.Sync)
	}

	engine.NoRoute(respondNotFound)

	return engine
}

// corsOrigins splits the comma-separated CORS_ALLOWED_ORIGINS config
// value, defaulting to "*" when unset.
func corsOrigins(raw string) []string {
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
