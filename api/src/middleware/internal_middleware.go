package middleware

import (
	"crypto/subtle"
	"net/http"

	reasoncodes "github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware admits requests whose Authorization header carries
// token. An empty token rejects everything.
func InternalAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("Authorization")
		if provided == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No Authorization Header Provided", "reason": reasoncodes.ErrUnauthorized})
			return
		}

		if token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Wrong auth token", "reason": reasoncodes.ErrUnauthorized})
			return
		}

		c.Next()
	}
}
