package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MichaelAmon/was-project/internal/shared/apperror"
	"github.com/MichaelAmon/was-project/internal/shared/response"
)

// AdminToken guards the read-only reporting routes with a static token. An
// empty configured token disables the routes entirely.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Reporting API is disabled", nil)
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid admin token", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
