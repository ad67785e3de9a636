package middleware

import (
	"errors"
	"net/http"
	"strings"

	"rubconv/internal/auth"

	"github.com/gin-gonic/gin"
)

// OperatorKey is the gin context key holding the token subject
const OperatorKey = "operator"

// TokenValidator validates a bearer token and returns its subject
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// OperatorRequired accepts only requests carrying a valid operator bearer token
func OperatorRequired(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		subject, err := tokens.ValidateToken(parts[1])
		if errors.Is(err, auth.ErrNotOperator) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(OperatorKey, subject)
		c.Next()
	}
}
