package middleware

import (
	"net/http"
	"time"

	"product-admin/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// quietRoutes are logged at debug level when they succeed.
var quietRoutes = map[string]bool{"/health": true}

// RequestLogger emits one structured "http_request" line per request. The
// level follows the status: error for 5xx, warn for 4xx, info otherwise.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if rid := c.GetString(logger.RequestIDKey); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if status == http.StatusSeeOther {
			fields = append(fields, zap.String("location", c.Writer.Header().Get("Location")))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if ce := log.Check(levelFor(status, route), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func levelFor(status int, route string) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	case quietRoutes[route]:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
