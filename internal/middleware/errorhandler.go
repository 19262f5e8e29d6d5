package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/logger"
)

// ErrorHandler is a Gin middleware that converts errors attached to the
// context into a standardized JSON error response.
//
// Behavior:
//   - Runs the handler chain first.
//   - If a handler recorded errors via c.Error and no response body was
//     written, responds with the last error.
//   - Uses the status already set on the response when one was chosen,
//     otherwise 500.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	logger.L().Error().
		Err(err).
		Int("status", status).
		Str("path", c.Request.URL.Path).
		Msg("request failed")

	c.AbortWithStatusJSON(status, dto.NewErrorResponse("Request failed", err))
}
