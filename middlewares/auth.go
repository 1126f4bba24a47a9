package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pizzeria-service/utils"
)

const roleKey = "role"

// OperatorAuth admits requests carrying a valid operator bearer token.
func OperatorAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Operator token required"})
			return
		}

		role, err := utils.ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if role != utils.RoleOperator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Operator role required"})
			return
		}

		c.Set(roleKey, role)
		c.Next()
	}
}
