package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(cfg.Logger))
	router.Use(RequestLogger())
	router.Use(Recovery())
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}
	router.MaxMultipartMemory = 8 << 20

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	api.GET("/stats", health.Stats)

	if cfg.Exporter != nil {
		exportController := NewExportController(cfg.Exporter)
		api.GET("/export", exportController.Export)
		api.GET("/export/snapshot", exportController.Snapshot)
	}

	if cfg.Importer != nil {
		importController := NewImportController(cfg.Importer)
		api.POST("/import", importController.Import)
	}

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
		api.GET("/audit/batches/:batch_id", auditController.GetBatchEvents)
		api.GET("/audit/events/:id", auditController.GetEvent)
	}

	return router
}
