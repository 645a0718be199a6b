package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the engine serving the API, the metrics endpoint and the
// frontend bundle.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(h.logger), gin.CustomRecovery(recoveryHandler(h.logger)))
	router.Use(cors.New(corsConfig(h.cfg.Server.CORSOrigins)))
	router.SetHTMLTemplate(fallbackTemplate)

	SetupRoutes(router, h, gatherer)
	return router
}

func SetupRoutes(router *gin.Engine, h *Handler, gatherer prometheus.Gatherer) {
	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.POST("/contact", h.HandleContact)
		api.POST("/renovation-proposal", h.HandleRenovationProposal)
		api.POST("/property-analysis", h.HandlePropertyAnalysis)
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	static := NewStaticHandler(h.cfg.Server.DistDir, h.cfg.Contact, h.logger)
	router.GET("/assets/*filepath", static.ServeAsset)
	router.GET("/favicon.ico", static.ServeDistFile("favicon.ico"))
	router.GET("/robots.txt", static.ServeDistFile("robots.txt"))
	router.GET("/sitemap.xml", static.ServeDistFile("sitemap.xml"))
	router.GET("/", static.ServeApp)
	router.NoRoute(static.NotFound)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func recoveryHandler(logger *logrus.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, err any) {
		logger.WithFields(logrus.Fields{
			"panic": err,
			"path":  c.Request.URL.Path,
		}).Error("Internal server error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}
