package repository

import (
	"context"
	"strings"

	"github.com/spec-kit/crm-service/internal/domain"
)

// EmployeeRepository defines persistence access for employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
}

type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		employee.Name,
		strings.ToLower(employee.Email),
		employee.PasswordHash,
		employee.Role,
	).Scan(&employee.ID, &employee.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at
        FROM employees WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	const query = `
        SELECT id, name, email, password_hash, role, created_at
        FROM employees WHERE lower(email)=lower($1)`
	return r.fetchSingle(ctx, query, email)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Email,
		&employee.PasswordHash,
		&employee.Role,
		&employee.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}
