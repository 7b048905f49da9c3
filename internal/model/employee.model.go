package model

import "time"

type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Salary     float64   `json:"salary"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateEmployeeRequest uses a pointer for Salary so that 0 is accepted while
// a missing value is not.
type CreateEmployeeRequest struct {
	Name       string   `json:"name"       validate:"required"`
	Position   string   `json:"position"   validate:"required"`
	Department string   `json:"department" validate:"required"`
	Salary     *float64 `json:"salary"     validate:"required"`
}

func (r CreateEmployeeRequest) Employee() Employee {
	e := Employee{
		Name:       r.Name,
		Position:   r.Position,
		Department: r.Department,
	}
	if r.Salary != nil {
		e.Salary = *r.Salary
	}
	return e
}

// EmployeePatch holds the fields of a partial update. Nil fields are left
// untouched.
type EmployeePatch struct {
	Name       *string  `json:"name"`
	Position   *string  `json:"position"`
	Department *string  `json:"department"`
	Salary     *float64 `json:"salary"`
}

func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Position == nil && p.Department == nil && p.Salary == nil
}

// Apply merges the patch into e.
func (p EmployeePatch) Apply(e *Employee) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
}

// EmployeeFilter is a search over name, position and department. Each
// non-empty field is a case-insensitive substring match; fields are ANDed.
type EmployeeFilter struct {
	Name       string `form:"name"`
	Position   string `form:"position"`
	Department string `form:"department"`
}

type EmployeeParams struct {
	ID string `uri:"id" validate:"required"`
}
