package repository

import (
	"context"
	"encoding/json"

	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/pkg/cache"
	"go.uber.org/zap"
)

const employeeKeyPrefix = "employee:"

// CachedEmployeeRepository serves FindByID through a read-through cache and
// drops the entry on Update and Delete. Everything else goes straight to the
// wrapped store.
type CachedEmployeeRepository struct {
	EmployeeRepository
	rt *cache.ReadThrough
}

func NewCachedEmployeeRepository(next EmployeeRepository, rt *cache.ReadThrough) *CachedEmployeeRepository {
	return &CachedEmployeeRepository{EmployeeRepository: next, rt: rt}
}

func employeeKey(id string) string {
	return employeeKeyPrefix + id
}

func (r *CachedEmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	b, err := r.rt.Get(ctx, employeeKey(id), func(ctx context.Context) ([]byte, error) {
		e, err := r.EmployeeRepository.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(e)
	})
	if err != nil {
		return nil, err
	}

	var e model.Employee
	if err := json.Unmarshal(b, &e); err != nil {
		// a corrupt entry is dropped and the store answers instead
		zap.L().Warn("Discarding undecodable cache entry", zap.String("id", id), zap.Error(err))
		r.rt.Invalidate(ctx, employeeKey(id))
		return r.EmployeeRepository.FindByID(ctx, id)
	}
	return &e, nil
}

func (r *CachedEmployeeRepository) Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error) {
	e, err := r.EmployeeRepository.Update(ctx, id, patch)
	r.rt.Invalidate(ctx, employeeKey(id))
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *CachedEmployeeRepository) Delete(ctx context.Context, id string) error {
	err := r.EmployeeRepository.Delete(ctx, id)
	r.rt.Invalidate(ctx, employeeKey(id))
	return err
}
