package controller

import (
	"time"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter defines all routes served by the API
func NewRouter(cfg config.Config, apiController APIController) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins: cfg.API.AllowOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/health", apiController.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/analyze-repo", apiController.AnalyzeRepo)
		api.POST("/evaluate-answer", apiController.EvaluateAnswer)
	}

	return router
}
