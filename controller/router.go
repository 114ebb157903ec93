package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github/itish2003/docquery/services"
	"github/itish2003/docquery/web"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	// Limiter throttles POST /query; nil disables rate limiting.
	Limiter *ClientLimiter
}

// SetupRouter wires the page, the query API and the health check.
func SetupRouter(service services.RAGService, logger *zap.Logger, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "docquery",
			"mode":    service.Mode(),
		})
	})

	web.RegisterRoutes(router)

	ragController := NewRAGController(service, logger)

	query := []gin.HandlerFunc{}
	if cfg.Limiter != nil {
		query = append(query, RateLimit(cfg.Limiter))
	}
	query = append(query, ragController.Query)

	router.POST("/query", query...)
	router.POST("/switch-mode", ragController.SwitchMode)
	router.GET("/mode", ragController.GetMode)
	router.GET("/documents", ragController.ListDocuments)
	router.GET("/usage", ragController.Usage)

	return router
}
