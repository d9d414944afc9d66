package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"haldeki/internal/logkey"
)

const TraceIDHeader = "X-Trace-Id"
const ctxTraceID = "trace_id"

// TraceID returns the request's trace id, set by Logger.
func TraceID(c *gin.Context) string {
	return c.GetString(ctxTraceID)
}

// Logger tags every request with a trace id (client-provided or generated)
// and writes one structured line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(ctxTraceID, traceID)
		c.Header(TraceIDHeader, traceID)

		start := time.Now()
		c.Next()

		slog.Info("request",
			slog.String(logkey.TraceID, traceID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("took", time.Since(start)),
		)
	}
}
