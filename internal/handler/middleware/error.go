package middleware

import (
	"log/slog"
	"net/http"

	"mentor-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler logs the underlying cause of server errors and renders the
// last public error when a handler recorded one without writing a body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && c.Writer.Status() >= http.StatusInternalServerError {
			for _, e := range c.Errors {
				slog.ErrorContext(c.Request.Context(), "request failed",
					"route", c.FullPath(), "status_code", c.Writer.Status(), "error", e.Err)
			}
		}

		if c.Writer.Written() {
			return
		}
		if e := c.Errors.Last(); e != nil && e.IsType(gin.ErrorTypePublic) {
			if resp, ok := e.Meta.(httperr.Response); ok {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.NewResponse(c, http.StatusInternalServerError, "Internal server error", nil))
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "recovered from panic", "panic", r, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httperr.NewResponse(c, http.StatusInternalServerError, "Internal server error", nil))
			}
		}()
		c.Next()
	}
}
