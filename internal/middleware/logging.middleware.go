package middleware

import (
	"time"

	"github.com/duccv/employee-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware provides request logging functionality
type LoggingMiddleware struct {
	config *MiddlewareConfig
}

func NewLoggingMiddleware(config *MiddlewareConfig) *LoggingMiddleware {
	return &LoggingMiddleware{
		config: config,
	}
}

// RequestLogger puts a request-scoped logger on the request context and logs
// one line when the request completes. Headers are not logged, so bearer
// tokens never reach the log.
func (l *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.LoggingEnabled {
			c.Next()
			return
		}

		start := time.Now()
		log := l.createRequestLogger(c)
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), log))

		c.Next()

		duration := time.Since(start)
		done := logger.WithResponse(log, c.Writer.Status(), duration)
		if uid := c.GetString(userIDKey); uid != "" {
			done = logger.WithUser(done, uid)
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			done.Error("Request completed", zap.Int("size", c.Writer.Size()))
		case status >= 400:
			done.Warn("Request completed", zap.Int("size", c.Writer.Size()))
		default:
			done.Info("Request completed", zap.Int("size", c.Writer.Size()))
		}

		if l.config.SlowRequestThreshold > 0 && duration > l.config.SlowRequestThreshold {
			log.Warn("Slow request detected", zap.Duration("duration", duration))
		}
	}
}

func (l *LoggingMiddleware) createRequestLogger(c *gin.Context) *zap.Logger {
	log := logger.WithCorrelationID(zap.L(), CorrelationID(c.Request.Context()))

	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if l.config.LogIPAddress {
		fields = append(fields, zap.String("ip", getClientIP(c)))
	}
	if l.config.LogUserAgent {
		fields = append(fields, zap.String("userAgent", c.Request.UserAgent()))
	}
	return log.With(fields...)
}

// ErrorLogger logs the errors handlers attached with c.Error.
func (l *LoggingMiddleware) ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		log := logger.FromContext(c.Request.Context())
		for _, err := range c.Errors {
			log.Error("Request error", zap.Error(err.Err))
		}
	}
}
