package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/takeaseat/take-a-seat-backend/utils"
)

// RequireRole memastikan user punya salah satu role yang diizinkan
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		// Admin selalu boleh
		if userRole == "admin" {
			c.Next()
			return
		}

		for _, role := range allowed {
			if userRole == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%v access required", allowed))
		c.Abort()
	}
}
