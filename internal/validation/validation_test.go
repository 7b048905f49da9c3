package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duccv/employee-api/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestValidate_Body(t *testing.T) {
	r := gin.New()
	r.POST("/signup", Validate[model.SignupRequest, any, any](), func(c *gin.Context) {
		c.JSON(http.StatusOK, Body[model.SignupRequest](c))
	})

	w := do(r, http.MethodPost, "/signup", `{"username":"a","email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/signup", `{"username":"a","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email is required", errorOf(t, w))

	w = do(r, http.MethodPost, "/signup", `{"username":"a","email":"nope","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email must be a valid email address", errorOf(t, w))

	w = do(r, http.MethodPost, "/signup", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorOf(t, w), "username is required")

	w = do(r, http.MethodPost, "/signup", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", errorOf(t, w))
}

func TestValidate_TypeMismatchAndZeroSalary(t *testing.T) {
	r := gin.New()
	r.POST("/employees", Validate[model.CreateEmployeeRequest, any, any](), func(c *gin.Context) {
		c.JSON(http.StatusOK, Body[model.CreateEmployeeRequest](c).Employee())
	})

	w := do(r, http.MethodPost, "/employees", `{"name":"a","position":"b","department":"c","salary":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "salary has an invalid type", errorOf(t, w))

	w = do(r, http.MethodPost, "/employees", `{"name":"a","position":"b","department":"c"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "salary is required", errorOf(t, w))

	w = do(r, http.MethodPost, "/employees", `{"name":"a","position":"b","department":"c","salary":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidate_ParamsAndQuery(t *testing.T) {
	r := gin.New()
	r.GET("/employees/:id", Validate[any, model.EmployeeParams, model.EmployeeFilter](), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   Params[model.EmployeeParams](c).ID,
			"name": Query[model.EmployeeFilter](c).Name,
		})
	})

	w := do(r, http.MethodGet, "/employees/42?name=ada", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"42","name":"ada"}`, w.Body.String())
}
