// Package http wires the gin route tree and the server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PatentLens/internal/interfaces/http/handlers"
	"github.com/turtacn/PatentLens/internal/interfaces/http/middleware"
)

// RouterConfig aggregates handler and middleware dependencies for the
// complete route tree.
type RouterConfig struct {
	PatentHandler *handlers.PatentHandler
	PersonHandler *handlers.PersonHandler
	FilterHandler *handlers.FilterHandler
	ExportHandler *handlers.ExportHandler
	HealthHandler *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.Metrics

	// Mode is a gin mode: debug, release or test.
	Mode        string
	MetricsPath string
	CORS        *middleware.CORSConfig
}

// NewRouter constructs the route tree: global middleware, public probes,
// the metrics endpoint and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}
	r.Use(middleware.CORS(corsCfg))

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))

		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}

	api := r.Group("/api/v1")
	registerPatentRoutes(api, cfg.PatentHandler)
	registerPersonRoutes(api, cfg.PersonHandler)
	registerFilterRoutes(api, cfg.FilterHandler)
	registerExportRoutes(api, cfg.ExportHandler)

	return r
}

func registerPatentRoutes(r *gin.RouterGroup, h *handlers.PatentHandler) {
	if h == nil {
		return
	}
	pr := r.Group("/patents")
	pr.GET("", h.List)
	pr.POST("", h.Create)
	pr.GET("/stats", h.Stats)
	pr.GET("/:kind/:reg_number", h.Get)
	pr.PATCH("/:kind/:reg_number", h.Update)
	pr.DELETE("/:kind/:reg_number", h.Delete)
}

func registerPersonRoutes(r *gin.RouterGroup, h *handlers.PersonHandler) {
	if h == nil {
		return
	}
	pr := r.Group("/persons")
	pr.GET("", h.List)
	pr.POST("", h.Create)
	pr.GET("/stats", h.Totals)
	pr.GET("/stats/moscow", h.MoscowStats)
	pr.GET("/stats/categories", h.CategoryStats)
	pr.GET("/:tax_number", h.Get)
	pr.PATCH("/:tax_number", h.Update)
	pr.DELETE("/:tax_number", h.Delete)
}

func registerFilterRoutes(r *gin.RouterGroup, h *handlers.FilterHandler) {
	if h == nil {
		return
	}
	fr := r.Group("/filters")
	fr.GET("", h.List)
	fr.POST("", h.Create)
	fr.POST("/upload", h.Upload)
	fr.GET("/:id", h.Get)
	fr.DELETE("/:id", h.Delete)
}

func registerExportRoutes(r *gin.RouterGroup, h *handlers.ExportHandler) {
	if h == nil {
		return
	}
	er := r.Group("/exports")
	er.POST("", h.Create)
	er.GET("/:id", h.Status)

	// Historical enqueue path kept for existing clients.
	r.POST("/patents/export", h.Create)
}
