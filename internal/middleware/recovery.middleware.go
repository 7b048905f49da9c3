package middleware

import (
	"net/http"

	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery answers a panicking request with a generic 500.
func Recovery(c *gin.Context, recovered any) {
	logger.WithRequest(logger.FromContext(c.Request.Context()), c.Request).
		Error("Recovered from panic", zap.Any("panic", recovered), zap.Stack("stack"))
	c.AbortWithStatusJSON(http.StatusInternalServerError, constant.INTERNAL_SERVER_ERROR)
}

// TimeoutResponse is written when a request outlives the configured timeout.
func TimeoutResponse(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestTimeout, constant.REQUEST_TIMEOUT)
}
