package http_server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duccv/employee-api/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.App.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	var down error
	s := New(&config.Env{}, HealthCheck(func(context.Context) error { return down }))

	w := serve(s, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	down = errors.New("db gone")
	w = serve(s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestRoutesAndMiddlewaresInstalled(t *testing.T) {
	var order []string
	s := New(&config.Env{},
		Middlewares(
			func(c *gin.Context) { order = append(order, "first"); c.Next() },
			func(c *gin.Context) { order = append(order, "second"); c.Next() },
		),
		Routes(func(r *gin.Engine) {
			r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		}),
	)

	w := serve(s, "/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestTimeoutResponse(t *testing.T) {
	s := New(&config.Env{},
		Timeout(20*time.Millisecond),
		TimeoutResponse(func(c *gin.Context) {
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "too slow"})
		}),
		Routes(func(r *gin.Engine) {
			r.GET("/slow", func(c *gin.Context) {
				time.Sleep(200 * time.Millisecond)
				c.String(http.StatusOK, "late")
			})
		}),
	)

	w := serve(s, "/slow")
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.JSONEq(t, `{"error":"too slow"}`, w.Body.String())
}

func TestRecoveryOption(t *testing.T) {
	s := New(&config.Env{},
		Recovery(func(c *gin.Context, _ any) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		}),
		Routes(func(r *gin.Engine) {
			r.GET("/panic", func(*gin.Context) { panic("x") })
		}),
	)

	w := serve(s, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}

func TestStartAndShutdown(t *testing.T) {
	s := New(&config.Env{}, Port("0"))
	s.Start()

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-s.Notify():
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
