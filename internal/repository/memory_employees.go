package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/domain"
)

// MemoryEmployeeRepository backs employees when no database is configured.
type MemoryEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]domain.Employee // id -> employee
	byEmail   map[string]string          // lower(email) -> id
}

func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{
		employees: map[string]domain.Employee{},
		byEmail:   map[string]string{},
	}
}

func (r *MemoryEmployeeRepository) Create(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(employee.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	employee.ID = uuid.NewString()
	employee.Email = key
	employee.CreatedAt = time.Now().UTC()
	r.employees[employee.ID] = *employee
	r.byEmail[key] = employee.ID
	return nil
}

func (r *MemoryEmployeeRepository) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employee, ok := r.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &employee, nil
}

func (r *MemoryEmployeeRepository) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	employee := r.employees[id]
	return &employee, nil
}

func (r *MemoryEmployeeRepository) ref(id string) *domain.EmployeeRef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	employee, ok := r.employees[id]
	if !ok {
		return nil
	}
	return &domain.EmployeeRef{ID: employee.ID, Name: employee.Name, Email: employee.Email}
}
