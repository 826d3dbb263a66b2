package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// ErrorHandler turns the last error attached with c.Error into the standard
// {"error":{"code","message"}} body. Handlers that already wrote a response
// keep it. Errors that are not AppErrors become INTERNAL_ERROR and only the
// log sees the cause.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Named("http")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		fields := []interface{}{
			"request_id", RequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		}

		appErr := apperrors.ErrInternalServer
		var target *apperrors.AppError
		if errors.As(err, &target) {
			appErr = target
			if appErr.Internal != nil || appErr.StatusCode >= http.StatusInternalServerError {
				fields = append(fields, "code", appErr.Code, "message", appErr.Message)
				if appErr.Internal != nil {
					fields = append(fields, "internal", appErr.Internal.Error())
				}
				log.Errorw("app error", fields...)
			}
		} else {
			log.Errorw("unexpected error", append(fields, "error", err.Error())...)
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
	}
}
