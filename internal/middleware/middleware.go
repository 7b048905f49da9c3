package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

type MiddlewareConfig struct {
	LoggingEnabled       bool
	LogUserAgent         bool
	LogIPAddress         bool
	SlowRequestThreshold time.Duration
}

func DefaultMiddlewareConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LoggingEnabled:       true,
		LogUserAgent:         true,
		LogIPAddress:         true,
		SlowRequestThreshold: 5 * time.Second,
	}
}

// getClientIP extracts the real client IP address
func getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
