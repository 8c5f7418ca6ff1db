package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "saldo/internal/errors"
	"saldo/internal/logger"
)

// errorBody renders the shared error envelope.
func errorBody(appErr *apperrors.AppError) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	}
}

// ErrorHandler returns a Gin middleware that converts errors attached to the
// context into the shared envelope. AppErrors keep their code and status;
// anything else is logged with request attribution and collapses to a generic
// internal error so no detail leaks.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Last error wins in a middleware chain.
		err := c.Errors.Last().Err
		log := logger.Get().With(
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(requestIDKey),
			"user_id", c.GetString(userIDKey),
		)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				log.Errorw("request failed",
					"code", appErr.Code,
					"error", appErr.Internal.Error(),
				)
			}
			c.JSON(appErr.StatusCode, errorBody(appErr))
			return
		}

		log.Errorw("unhandled error", "error", err.Error())
		c.JSON(apperrors.ErrInternalServer.StatusCode, errorBody(apperrors.ErrInternalServer))
	}
}
