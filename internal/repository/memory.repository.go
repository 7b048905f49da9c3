package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/duccv/employee-api/internal/model"
	"github.com/google/uuid"
)

// MemoryUserRepository keeps users in process memory.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*model.User
	names   map[string]struct{}
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byEmail: make(map[string]*model.User),
		names:   make(map[string]struct{}),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, &DuplicateError{Field: "email"}
	}
	if _, ok := r.names[user.Username]; ok {
		return nil, &DuplicateError{Field: "username"}
	}

	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.byEmail[stored.Email] = &stored
	r.names[stored.Username] = struct{}{}

	out := stored
	return &out, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

// MemoryEmployeeRepository keeps employees in process memory, listed in
// insertion order.
type MemoryEmployeeRepository struct {
	mu    sync.RWMutex
	byID  map[string]*model.Employee
	order []string
	now   func() time.Time
}

func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{
		byID: make(map[string]*model.Employee),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryEmployeeRepository) Create(_ context.Context, employee *model.Employee) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *employee
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

func (r *MemoryEmployeeRepository) FindAll(_ context.Context) ([]model.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out, nil
}

func (r *MemoryEmployeeRepository) FindByID(_ context.Context, id string) (*model.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (r *MemoryEmployeeRepository) Update(_ context.Context, id string, patch model.EmployeePatch) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(e)
	e.UpdatedAt = r.now()

	out := *e
	return &out, nil
}

func (r *MemoryEmployeeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryEmployeeRepository) Search(_ context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Employee, 0)
	for _, id := range r.order {
		e := r.byID[id]
		if containsFold(e.Name, filter.Name) &&
			containsFold(e.Position, filter.Position) &&
			containsFold(e.Department, filter.Department) {
			out = append(out, *e)
		}
	}
	return out, nil
}

// containsFold reports whether substr occurs in s ignoring case. An empty
// substr matches everything.
func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// NewMemoryRepositories returns empty in-memory stores.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Users:     NewMemoryUserRepository(),
		Employees: NewMemoryEmployeeRepository(),
	}
}
