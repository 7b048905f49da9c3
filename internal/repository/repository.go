// Package repository holds the credential and employee stores. Each store has
// a MongoDB, a PostgreSQL and an in-memory implementation; all of them report
// missing records as ErrNotFound and unique-key clashes as ErrDuplicate.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/duccv/employee-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// DuplicateError names the unique field a write collided on.
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "record already exists"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func (e *DuplicateError) Unwrap() error { return e.Err }

// uniqueFields maps unique index and constraint names to the user field they
// guard.
var uniqueFields = map[string]string{
	"email_1":            "email",
	"username_1":         "username",
	"users_email_key":    "email",
	"users_username_key": "username",
}

// duplicateField names the user field behind a unique index or constraint.
func duplicateField(indexName string) string {
	return uniqueFields[indexName]
}

type UserRepository interface {
	// Create stores user and fills in its ID and CreatedAt.
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) (*model.Employee, error)
	FindAll(ctx context.Context) ([]model.Employee, error)
	// FindByID returns ErrNotFound for ids the store could never have issued.
	FindByID(ctx context.Context, id string) (*model.Employee, error)
	Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error)
}

// Repositories bundles the stores of one backend.
type Repositories struct {
	Users     UserRepository
	Employees EmployeeRepository
}
