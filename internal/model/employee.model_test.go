package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmployeePatch_ApplyOnlyTouchesSetFields(t *testing.T) {
	e := Employee{Name: "Ada", Position: "Engineer", Department: "Engineering", Salary: 100}
	salary := 250.5

	EmployeePatch{Salary: &salary}.Apply(&e)

	assert.Equal(t, Employee{Name: "Ada", Position: "Engineer", Department: "Engineering", Salary: 250.5}, e)
}

func TestEmployeePatch_IsEmpty(t *testing.T) {
	assert.True(t, EmployeePatch{}.IsEmpty())
	name := "x"
	assert.False(t, EmployeePatch{Name: &name}.IsEmpty())
}

func TestCreateEmployeeRequest_KeepsZeroSalary(t *testing.T) {
	zero := 0.0
	e := CreateEmployeeRequest{Name: "a", Position: "b", Department: "c", Salary: &zero}.Employee()
	assert.Equal(t, 0.0, e.Salary)
	assert.Equal(t, "a", e.Name)
}
