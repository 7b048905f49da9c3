// Package router mounts the public and protected API routes.
package router

import (
	"net/http"

	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/internal/handler"
	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/internal/validation"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Employees *handler.EmployeeHandler
}

// Register mounts signup and login publicly under prefix and the employee
// routes behind gate. The root path answers a plain welcome string.
func Register(r *gin.Engine, prefix string, h Handlers, gate gin.HandlerFunc, a *handler.Adapter) {
	r.GET("/", Welcome)

	api := r.Group(prefix)
	api.POST("/signup", validation.Validate[model.SignupRequest, any, any](), a.Wrap(h.Auth.Signup))
	api.POST("/login", validation.Validate[model.LoginRequest, any, any](), a.Wrap(h.Auth.Login))

	protected := api.Group("", gate)
	protected.POST("/employees",
		validation.Validate[model.CreateEmployeeRequest, any, any](), a.Wrap(h.Employees.Create))
	protected.GET("/employees", a.Wrap(h.Employees.List))
	protected.GET("/employees/:id",
		validation.Validate[any, model.EmployeeParams, any](), a.Wrap(h.Employees.Get))
	protected.PUT("/employees/:id",
		validation.Validate[model.EmployeePatch, model.EmployeeParams, any](), a.Wrap(h.Employees.Update))
	protected.DELETE("/employees/:id",
		validation.Validate[any, model.EmployeeParams, any](), a.Wrap(h.Employees.Delete))
	protected.GET("/search",
		validation.Validate[any, any, model.EmployeeFilter](), a.Wrap(h.Employees.Search))
}

// Welcome godoc
//
//	@Summary	Welcome message
//	@Tags		Health
//	@Produce	plain
//	@Success	200	{string}	string	"Welcome to the API!"
//	@Router		/ [get]
func Welcome(c *gin.Context) {
	c.String(http.StatusOK, constant.MsgWelcome)
}
