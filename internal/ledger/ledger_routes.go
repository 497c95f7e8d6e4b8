package ledger

import (
	"github.com/gin-gonic/gin"

	"github.com/MichaelAmon/was-project/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, adminToken string) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AdminToken(adminToken))
	{
		attendances.GET("", h.GetAll)
	}
}
