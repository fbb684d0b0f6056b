package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// RequestLogger tags each request with an id, echoed in the response, and
// logs it once it has completed.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		logger.LogAttrs(c.Request.Context(), level, c.Request.Method+" "+c.Request.URL.Path,
			slog.String("request_id", requestID),
			slog.String("from", c.ClientIP()),
			slog.String("ua", c.Request.UserAgent()),
			slog.Int("status", status),
			slog.Duration("dur", time.Since(start)),
		)
	}
}
