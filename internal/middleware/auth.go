package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

// AuthGuard authenticates like UserAuth and then requires one of allowedRoles.
func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR]", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if identity.Role == r {
					match = true
					break
				}
			}
			if !match {
				log.Println("[AUTH] [ERROR] role not allowed:", identity.Role)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Forbidden"})
				return
			}
		}

		c.Set("userId", identity.UserID)
		c.Set("email", identity.Email)
		c.Set("role", identity.Role)
		c.Next()
	}
}

func AdminAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, models.RoleAdmin, models.RoleSuperAdmin)
}
