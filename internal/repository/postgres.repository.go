package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/duccv/employee-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT users_username_key UNIQUE (username),
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS employees (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	position   TEXT NOT NULL,
	department TEXT NOT NULL,
	salary     DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const employeeColumns = `id::text AS id, name, position, department, salary, created_at, updated_at`

// EnsurePostgresSchema creates the users and employees tables if missing.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// NewPostgresRepositories ensures the schema and returns stores over pool.
func NewPostgresRepositories(ctx context.Context, pool *pgxpool.Pool) (Repositories, error) {
	if err := EnsurePostgresSchema(ctx, pool); err != nil {
		return Repositories{}, err
	}
	return Repositories{
		Users:     NewPostgresUserRepository(pool),
		Employees: NewPostgresEmployeeRepository(pool),
	}, nil
}

type employeeRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Position   string    `db:"position"`
	Department string    `db:"department"`
	Salary     float64   `db:"salary"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r employeeRow) toModel() model.Employee {
	return model.Employee{
		ID:         r.ID,
		Name:       r.Name,
		Position:   r.Position,
		Department: r.Department,
		Salary:     r.Salary,
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	out := *user
	out.ID = uuid.NewString()

	query := `INSERT INTO users (id, username, email, password_hash)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, out.ID, out.Username, out.Email, out.PasswordHash).
		Scan(&out.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &DuplicateError{Field: duplicateField(pgErr.ConstraintName), Err: err}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	out.CreatedAt = out.CreatedAt.UTC()
	return &out, nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id::text, username, email, password_hash, created_at
	          FROM users WHERE email = $1`

	var u model.User
	err := r.pool.QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

type PostgresEmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEmployeeRepository(pool *pgxpool.Pool) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{pool: pool}
}

func (r *PostgresEmployeeRepository) Create(ctx context.Context, employee *model.Employee) (*model.Employee, error) {
	query := `INSERT INTO employees (id, name, position, department, salary)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING ` + employeeColumns

	rows, err := r.pool.Query(ctx, query,
		uuid.New(), employee.Name, employee.Position, employee.Department, employee.Salary)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[employeeRow])
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	out := row.toModel()
	return &out, nil
}

func (r *PostgresEmployeeRepository) FindAll(ctx context.Context) ([]model.Employee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at, id`)
}

func (r *PostgresEmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.one(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, uid)
}

func (r *PostgresEmployeeRepository) Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	sets := []string{"updated_at = now()"}
	args := []any{uid}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.Salary != nil {
		add("salary", *patch.Salary)
	}

	query := `UPDATE employees SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + employeeColumns
	return r.one(ctx, query, args...)
}

func (r *PostgresEmployeeRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresEmployeeRepository) Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	where, args := postgresSearchClause(filter)
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees`+where+` ORDER BY created_at, id`, args...)
}

// postgresSearchClause builds an ILIKE per set field. LIKE wildcards in the
// input are escaped so it matches literally.
func postgresSearchClause(filter model.EmployeeFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	for _, f := range []struct {
		column, value string
	}{
		{"name", filter.Name},
		{"position", filter.Position},
		{"department", filter.Department},
	} {
		if f.value == "" {
			continue
		}
		args = append(args, "%"+escapeLike(f.value)+"%")
		conds = append(conds, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, f.column, len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *PostgresEmployeeRepository) one(ctx context.Context, query string, args ...any) (*model.Employee, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employee: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[employeeRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query employee: %w", err)
	}
	out := row.toModel()
	return &out, nil
}

func (r *PostgresEmployeeRepository) list(ctx context.Context, query string, args ...any) ([]model.Employee, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[employeeRow])
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}

	out := make([]model.Employee, 0, len(collected))
	for _, row := range collected {
		out = append(out, row.toModel())
	}
	return out, nil
}
