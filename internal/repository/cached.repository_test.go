package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duccv/employee-api/internal/model"
	"github.com/duccv/employee-api/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepository struct {
	EmployeeRepository
	finds atomic.Int32
}

func (r *countingRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	r.finds.Add(1)
	return r.EmployeeRepository.FindByID(ctx, id)
}

func newCached(t *testing.T) (*CachedEmployeeRepository, *countingRepository) {
	t.Helper()
	inner := &countingRepository{EmployeeRepository: NewMemoryEmployeeRepository()}
	rt := cache.NewReadThrough(cache.NewLRUCache(16, time.Minute), time.Second)
	t.Cleanup(rt.Stop)
	return NewCachedEmployeeRepository(inner, rt), inner
}

func TestCachedEmployeeRepository_ServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	r, inner := newCached(t)
	seeded := seedEmployees(t, r)

	for range 3 {
		got, err := r.FindByID(ctx, seeded[0].ID)
		require.NoError(t, err)
		assert.Equal(t, seeded[0].Name, got.Name)
		assert.True(t, seeded[0].CreatedAt.Equal(got.CreatedAt))
	}
	assert.Equal(t, int32(1), inner.finds.Load())
}

func TestCachedEmployeeRepository_UpdateAndDeleteInvalidate(t *testing.T) {
	ctx := context.Background()
	r, _ := newCached(t)
	seeded := seedEmployees(t, r)
	id := seeded[0].ID

	_, err := r.FindByID(ctx, id)
	require.NoError(t, err)

	_, err = r.Update(ctx, id, model.EmployeePatch{Position: ptr("CTO")})
	require.NoError(t, err)

	got, err := r.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CTO", got.Position)

	require.NoError(t, r.Delete(ctx, id))
	_, err = r.FindByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedEmployeeRepository_MissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	r, inner := newCached(t)

	_, err := r.FindByID(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.FindByID(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(2), inner.finds.Load())
}

// gatedRepository parks FindByID after it has read the store until release
// is closed.
type gatedRepository struct {
	EmployeeRepository
	reading chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *gatedRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	e, err := r.EmployeeRepository.FindByID(ctx, id)
	r.once.Do(func() {
		close(r.reading)
		<-r.release
	})
	return e, err
}

func TestCachedEmployeeRepository_WriteDuringLoadIsNotShadowed(t *testing.T) {
	ctx := context.Background()
	inner := &gatedRepository{
		EmployeeRepository: NewMemoryEmployeeRepository(),
		reading:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	rt := cache.NewReadThrough(cache.NewLRUCache(16, time.Minute), time.Second)
	t.Cleanup(rt.Stop)
	r := NewCachedEmployeeRepository(inner, rt)

	created, err := inner.EmployeeRepository.Create(ctx, &model.Employee{
		Name: "Ada", Position: "Engineer", Department: "R&D", Salary: 100,
	})
	require.NoError(t, err)

	first := make(chan *model.Employee)
	go func() {
		e, err := r.FindByID(ctx, created.ID)
		assert.NoError(t, err)
		first <- e
	}()

	<-inner.reading
	_, err = r.Update(ctx, created.ID, model.EmployeePatch{Salary: ptr(200.0)})
	require.NoError(t, err)
	close(inner.release)
	assert.Equal(t, 100.0, (<-first).Salary)

	got, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.Salary)
}

func TestCachedEmployeeRepository_DeleteDuringLoadIsNotShadowed(t *testing.T) {
	ctx := context.Background()
	inner := &gatedRepository{
		EmployeeRepository: NewMemoryEmployeeRepository(),
		reading:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	rt := cache.NewReadThrough(cache.NewFIFOCache(16, time.Minute), time.Second)
	t.Cleanup(rt.Stop)
	r := NewCachedEmployeeRepository(inner, rt)

	created, err := inner.EmployeeRepository.Create(ctx, &model.Employee{Name: "Ada", Salary: 1})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := r.FindByID(ctx, created.ID)
		assert.NoError(t, err)
	}()

	<-inner.reading
	require.NoError(t, r.Delete(ctx, created.ID))
	close(inner.release)
	<-done

	_, err = r.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
