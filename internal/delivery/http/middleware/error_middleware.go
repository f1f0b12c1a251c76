package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brittlebones-backend/internal/delivery/http/response"
	"brittlebones-backend/pkg/apperror"
	"brittlebones-backend/pkg/logger"
	"brittlebones-backend/pkg/validation"
)

const msgUnexpected = "An unexpected error occurred. Please try again later."

// ErrorHandler renders the last error pushed with c.Error using render, so
// each route group keeps its own JSON shape.
func ErrorHandler(render response.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// Never expose internal error details to clients
			logger.Log.Error("Unhandled request error",
				zap.String("request_id", c.GetString(response.RequestIDKey)),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
			render(c, http.StatusInternalServerError, msgUnexpected)
			return
		}

		switch appErr.Kind {
		case apperror.KindRelay, apperror.KindConfiguration, apperror.KindInternal:
			logger.Log.Error("Request failed",
				zap.String("request_id", c.GetString(response.RequestIDKey)),
				zap.String("path", c.FullPath()),
				zap.String("kind", string(appErr.Kind)),
				zap.Error(appErr.Err),
			)
		case apperror.KindValidation:
			logger.Log.Debug("Request rejected",
				zap.String("request_id", c.GetString(response.RequestIDKey)),
				zap.String("path", c.FullPath()),
				zap.String("reason", appErr.Message),
				zap.Strings("details", validationDetails(appErr.Err)),
			)
		}

		render(c, appErr.Code, appErr.Message)
	}
}

func validationDetails(err error) []string {
	if err == nil {
		return nil
	}
	return validation.FormatValidationErrors(err)
}
