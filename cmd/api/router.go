package api

import (
	"net/http"
	"os"
	"path/filepath"

	"fulfillmentpro-push/internal/client/display"
	pushDelivery "fulfillmentpro-push/internal/push/delivery"
	pushUsecase "fulfillmentpro-push/internal/push/usecase"
	"fulfillmentpro-push/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, pushUsecase pushUsecase.PushUsecase, cfg *config.Config) {
	pushHandler := pushDelivery.NewPushHandler(pushUsecase)

	// Health check (no auth required)
	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler)

		// Push routes: the page registers itself, workers broadcast
		push := api.Group("/push")
		{
			push.POST("/subscribe", pushHandler.Subscribe)
			push.DELETE("/subscribe/:token", pushHandler.Unsubscribe)
			push.POST("/send", pushDelivery.WorkerAuthMiddleware(cfg.WorkerAuthToken), pushHandler.Send)
		}
	}

	if cfg.StaticDir != "" {
		icon := filepath.Join(cfg.StaticDir, filepath.Base(display.Icon))
		if _, err := os.Stat(icon); err == nil {
			r.StaticFile(display.Icon, icon)
		}
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
