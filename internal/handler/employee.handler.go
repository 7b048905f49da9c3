package handler

import (
	"context"

	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/internal/model/response"
	"github.com/duccv/employee-api/internal/validation"
	"github.com/gin-gonic/gin"
)

type EmployeeService interface {
	Create(ctx context.Context, req model.CreateEmployeeRequest) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	Get(ctx context.Context, id string) (*model.Employee, error)
	Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error)
}

type EmployeeHandler struct {
	svc EmployeeService
}

func NewEmployeeHandler(svc EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// Create godoc
//
//	@Summary	Create an employee
//	@Tags		Employees
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		model.CreateEmployeeRequest	true	"employee"
//	@Success	201		{object}	model.Employee
//	@Failure	400		{object}	response.ErrorData
//	@Failure	401		{object}	response.ErrorData
//	@Router		/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) (Result, error) {
	e, err := h.svc.Create(c.Request.Context(), validation.Body[model.CreateEmployeeRequest](c))
	if err != nil {
		return Result{}, err
	}
	return Created(e), nil
}

// List godoc
//
//	@Summary	List all employees
//	@Tags		Employees
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}		model.Employee
//	@Failure	401	{object}	response.ErrorData
//	@Router		/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) (Result, error) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		return Result{}, err
	}
	return OK(list), nil
}

// Get godoc
//
//	@Summary	Get an employee
//	@Tags		Employees
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"employee id"
//	@Success	200	{object}	model.Employee
//	@Failure	404	{object}	response.ErrorData
//	@Router		/employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) (Result, error) {
	params := validation.Params[model.EmployeeParams](c)
	e, err := h.svc.Get(c.Request.Context(), params.ID)
	if err != nil {
		return Result{}, err
	}
	return OK(e), nil
}

// Update godoc
//
//	@Summary		Update an employee
//	@Description	Only the supplied fields change.
//	@Tags			Employees
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"employee id"
//	@Param			body	body		model.EmployeePatch	true	"fields to change"
//	@Success		200		{object}	model.Employee
//	@Failure		400		{object}	response.ErrorData
//	@Failure		404		{object}	response.ErrorData
//	@Router			/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) (Result, error) {
	params := validation.Params[model.EmployeeParams](c)
	e, err := h.svc.Update(c.Request.Context(), params.ID, validation.Body[model.EmployeePatch](c))
	if err != nil {
		return Result{}, err
	}
	return OK(e), nil
}

// Delete godoc
//
//	@Summary	Delete an employee
//	@Tags		Employees
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"employee id"
//	@Success	200	{object}	response.MessageData
//	@Failure	404	{object}	response.ErrorData
//	@Router		/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) (Result, error) {
	params := validation.Params[model.EmployeeParams](c)
	if err := h.svc.Delete(c.Request.Context(), params.ID); err != nil {
		return Result{}, err
	}
	return OK(response.MessageData{Message: constant.MsgEmployeeDeleted}), nil
}

// Search godoc
//
//	@Summary		Search employees
//	@Description	Case-insensitive substring match on each supplied field; fields are combined with AND.
//	@Tags			Employees
//	@Security		BearerAuth
//	@Produce		json
//	@Param			name		query		string	false	"name contains"
//	@Param			position	query		string	false	"position contains"
//	@Param			department	query		string	false	"department contains"
//	@Success		200			{array}		model.Employee
//	@Router			/search [get]
func (h *EmployeeHandler) Search(c *gin.Context) (Result, error) {
	list, err := h.svc.Search(c.Request.Context(), validation.Query[model.EmployeeFilter](c))
	if err != nil {
		return Result{}, err
	}
	return OK(list), nil
}
