package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duccv/employee-api/internal/auth"
	"github.com/duccv/employee-api/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGate(t *testing.T) (*auth.TokenService, *gin.Engine, *int) {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("gate-secret"), time.Hour)
	require.NoError(t, err)

	hits := 0
	r := gin.New()
	r.Use(CorrelationIDMiddleware())
	r.GET("/private", NewJWTAuthMiddleware(tokens).Authenticate(), func(c *gin.Context) {
		hits++
		fromGin, ok := ClaimsFromGin(c)
		require.True(t, ok)
		fromCtx, ok := ClaimsFromContext(c.Request.Context())
		require.True(t, ok)
		assert.Same(t, fromGin, fromCtx)
		c.String(http.StatusOK, fromCtx.UserID)
	})
	return tokens, r, &hits
}

func get(r http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_RejectsMissingOrMalformedHeader(t *testing.T) {
	_, r, hits := newGate(t)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwdw==", "token-without-scheme"} {
		w := get(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.JSONEq(t, `{"error":"No token, authorization denied"}`, w.Body.String(), header)
	}
	assert.Zero(t, *hits)
}

func TestAuthenticate_RejectsInvalidToken(t *testing.T) {
	_, r, hits := newGate(t)

	other, err := auth.NewTokenService([]byte("other-secret"), time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("u1")
	require.NoError(t, err)

	for _, header := range []string{"Bearer garbage", "Bearer " + forged} {
		w := get(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid token"}`, w.Body.String())
	}
	assert.Zero(t, *hits)
}

func TestAuthenticate_AcceptsValidToken(t *testing.T) {
	tokens, r, hits := newGate(t)
	tok, err := tokens.Issue("user-7")
	require.NoError(t, err)

	for _, scheme := range []string{"Bearer", "bearer", "BEARER"} {
		w := get(r, scheme+" "+tok)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-7", w.Body.String())
	}
	assert.Equal(t, 3, *hits)
}

func TestCorrelationID(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, CorrelationID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constant.CorrelationIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(constant.CorrelationIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(constant.CorrelationIDHeader))
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	lm := NewLoggingMiddleware(DefaultMiddlewareConfig())
	r := gin.New()
	r.Use(CorrelationIDMiddleware(), lm.RequestLogger(), lm.ErrorLogger())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecovery_AnswersGeneric500(t *testing.T) {
	r := gin.New()
	r.Use(gin.CustomRecovery(Recovery))
	r.GET("/boom", func(*gin.Context) { panic("nil map write") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
