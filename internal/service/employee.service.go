package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/duccv/employee-api/internal/apperr"
	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/internal/repository"
)

type EmployeeService struct {
	employees repository.EmployeeRepository
}

func NewEmployeeService(employees repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employees: employees}
}

func (s *EmployeeService) Create(ctx context.Context, req model.CreateEmployeeRequest) (*model.Employee, error) {
	e := req.Employee()
	created, err := s.employees.Create(ctx, &e)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("create employee: %w", err))
	}
	return created, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	list, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list employees: %w", err))
	}
	return list, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*model.Employee, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, translate("get employee", err)
	}
	return e, nil
}

// Update merges patch into the stored employee.
func (s *EmployeeService) Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error) {
	e, err := s.employees.Update(ctx, id, patch)
	if err != nil {
		return nil, translate("update employee", err)
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return translate("delete employee", err)
	}
	return nil
}

func (s *EmployeeService) Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	list, err := s.employees.Search(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("search employees: %w", err))
	}
	return list, nil
}

func translate(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(constant.MsgEmployeeNotFound)
	}
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}
