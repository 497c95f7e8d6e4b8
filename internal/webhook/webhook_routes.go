package webhook

import (
	"github.com/gin-gonic/gin"

	"github.com/MichaelAmon/was-project/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	hooks := r.Group("/webhook")
	hooks.Use(middleware.RateLimitByIP(20, 40))
	{
		hooks.GET("", h.Verify)
		hooks.POST("", h.Receive)
	}
}
