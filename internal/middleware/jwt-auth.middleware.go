package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = constant.GinUserIDKey

type TokenVerifier interface {
	Verify(token string) (*model.Claims, error)
}

// JWTAuthMiddleware is the gate in front of the protected routes.
type JWTAuthMiddleware struct {
	verifier TokenVerifier
}

func NewJWTAuthMiddleware(verifier TokenVerifier) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{verifier: verifier}
}

// Authenticate rejects requests without a valid bearer token with 401. On
// success the claims are stored on both the gin and the request context.
func (m *JWTAuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			handleAuthError(c, "missing_token", constant.NO_TOKEN)
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("Token rejected", zap.Error(err))
			handleAuthError(c, "invalid_token", constant.INVALID_TOKEN)
			return
		}

		c.Set(constant.GinClaimsKey, claims)
		c.Set(userIDKey, claims.UserID)
		ctx := context.WithValue(c.Request.Context(), constant.ClaimsKey, claims)
		ctx = logger.IntoContext(ctx, logger.WithUser(logger.FromContext(ctx), claims.UserID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractToken reads "Authorization: Bearer <token>". The scheme is matched
// case-insensitively.
func extractToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func handleAuthError(c *gin.Context, errorType string, body any) {
	logger.FromContext(c.Request.Context()).Warn("Authentication failed",
		zap.String("ip", getClientIP(c)),
		zap.String("errorType", errorType))

	c.AbortWithStatusJSON(http.StatusUnauthorized, body)
}

// ClaimsFromContext returns the claims Authenticate stored on ctx.
func ClaimsFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(constant.ClaimsKey).(*model.Claims)
	return claims, ok && claims != nil
}

// ClaimsFromGin returns the claims Authenticate stored on c.
func ClaimsFromGin(c *gin.Context) (*model.Claims, bool) {
	v, ok := c.Get(constant.GinClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.Claims)
	return claims, ok && claims != nil
}
