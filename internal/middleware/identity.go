package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "saldo/internal/errors"
)

// userIDKey is the Gin context key the caller's id is stored under.
const userIDKey = "userID"

// Identity returns a Gin middleware that attributes requests to a user via
// the X-User-ID header. The document store's access rules own real
// authentication; the API only needs to know who is asking.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			appErr := apperrors.ErrMissingIdentity
			c.AbortWithStatusJSON(appErr.StatusCode, errorBody(appErr))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
