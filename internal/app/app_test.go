package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/duccv/employee-api/config"
	"github.com/duccv/employee-api/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T, vars map[string]string) *App {
	t.Helper()

	t.Setenv("JWT_SECRET", "app-secret")
	t.Setenv("ENV_DATABASE_TYPE", "memory")
	t.Setenv("ENV_AUTH_HASH_COST", "4")
	for k, v := range vars {
		t.Setenv(k, v)
	}

	env, err := config.Load(t.TempDir())
	require.NoError(t, err)

	a, err := New(context.Background(), env)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func request(h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestApp_WelcomeAndHealth(t *testing.T) {
	h := newTestApp(t, nil).Handler()

	w := request(h, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the API!", w.Body.String())

	w = request(h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestApp_CorrelationIDEchoed(t *testing.T) {
	h := newTestApp(t, nil).Handler()

	w := request(h, http.MethodGet, "/", nil, map[string]string{constant.CorrelationIDHeader: "req-42"})
	assert.Equal(t, "req-42", w.Header().Get(constant.CorrelationIDHeader))

	w = request(h, http.MethodGet, "/", nil, nil)
	assert.NotEmpty(t, w.Header().Get(constant.CorrelationIDHeader))
}

func TestApp_CORS(t *testing.T) {
	h := newTestApp(t, nil).Handler()

	w := request(h, http.MethodOptions, "/api/employees", nil, map[string]string{
		"Origin":                         "http://localhost:3000",
		"Access-Control-Request-Method":  http.MethodPut,
		"Access-Control-Request-Headers": "Authorization",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = request(h, http.MethodGet, "/", nil, map[string]string{"Origin": "http://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestApp_AuthenticatedFlowWithCache(t *testing.T) {
	for _, cacheType := range []string{"lru", "fifo"} {
		t.Run(cacheType, func(t *testing.T) {
			h := newTestApp(t, map[string]string{
				"ENV_CACHE_ENABLED": "true",
				"ENV_CACHE_TYPE":    cacheType,
			}).Handler()

			w := request(h, http.MethodPost, "/api/signup", gin.H{"username": "a", "email": "a@x.com", "password": "pw"}, nil)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			w = request(h, http.MethodPost, "/api/login", gin.H{"email": "a@x.com", "password": "pw"}, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var tok struct{ Token string }
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
			bearer := map[string]string{"Authorization": "Bearer " + tok.Token}

			w = request(h, http.MethodPost, "/api/employees", gin.H{
				"name": "Ada", "position": "Engineer", "department": "Engineering", "salary": 10,
			}, bearer)
			require.Equal(t, http.StatusCreated, w.Code)
			var created struct{ ID string }
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

			// warm the cache, then make sure writes are visible through it
			require.Equal(t, http.StatusOK, request(h, http.MethodGet, "/api/employees/"+created.ID, nil, bearer).Code)

			w = request(h, http.MethodPut, "/api/employees/"+created.ID, gin.H{"salary": 20}, bearer)
			require.Equal(t, http.StatusOK, w.Code)

			w = request(h, http.MethodGet, "/api/employees/"+created.ID, nil, bearer)
			require.Equal(t, http.StatusOK, w.Code)
			var got struct{ Salary float64 }
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, 20.0, got.Salary)

			require.Equal(t, http.StatusOK, request(h, http.MethodDelete, "/api/employees/"+created.ID, nil, bearer).Code)
			assert.Equal(t, http.StatusNotFound, request(h, http.MethodGet, "/api/employees/"+created.ID, nil, bearer).Code)
		})
	}
}

func TestApp_MetricsEndpoint(t *testing.T) {
	h := newTestApp(t, nil).Handler()

	w := request(h, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_RedisCacheNeedsServer(t *testing.T) {
	t.Setenv("JWT_SECRET", "app-secret")
	t.Setenv("ENV_DATABASE_TYPE", "memory")
	t.Setenv("ENV_CACHE_ENABLED", "true")
	t.Setenv("ENV_CACHE_TYPE", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	env, err := config.Load(t.TempDir())
	require.NoError(t, err)

	_, err = New(context.Background(), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
