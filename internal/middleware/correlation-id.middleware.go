package middleware

import (
	"context"

	"github.com/duccv/employee-api/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorrelationIDMiddleware reuses the caller's X-Correlation-ID or mints one,
// echoes it on the response and stores it on the request context.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(constant.CorrelationIDHeader)
		if cid == "" {
			cid = uuid.New().String()
		}
		ctx := context.WithValue(c.Request.Context(), constant.CorrelationIDKey, cid)
		c.Request = c.Request.WithContext(ctx)
		c.Set(constant.GinRequestIDKey, cid)
		c.Writer.Header().Set(constant.CorrelationIDHeader, cid)
		c.Next()
	}
}

// CorrelationID returns the id stored by CorrelationIDMiddleware.
func CorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(constant.CorrelationIDKey).(string)
	return cid
}
