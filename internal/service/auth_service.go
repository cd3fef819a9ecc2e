package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

const (
	msgEmployeeExists     = "Employee already exists with this email"
	msgInvalidCredentials = "Invalid credentials"
	msgMissingCredentials = "Please provide email and password"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	employees  repository.EmployeeRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// RegisterInput describes a registration request. Role may be empty.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.EmployeeRole
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Employee *domain.Employee
	Token    domain.Token
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		employees:  deps.EmployeeRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register creates a new employee account and issues a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.Role == "" {
		input.Role = domain.DefaultEmployeeRole
	}

	fields := fieldErrors{}
	fields.required("name", input.Name, "Please provide a name")
	fields.required("email", input.Email, "Please provide an email")
	fields.email("email", input.Email)
	fields.required("password", input.Password, "Please provide a password")
	if _, missing := fields["password"]; !missing && len(input.Password) < minPasswordLength {
		fields["password"] = "Password must be at least 6 characters"
	}
	if !input.Role.Valid() {
		fields["role"] = "Role must be one of counselor, admin"
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if _, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict(msgEmployeeExists, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	employee := &domain.Employee{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict(msgEmployeeExists, nil)
		}
		return nil, apperrors.MapError(err)
	}

	token, err := s.tokenMgr.GenerateToken(employee.ID, employee.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventEmployeeRegistered,
		AggregateID: employee.ID,
		ActorID:     &employee.ID,
		Payload: events.EmployeeRegisteredPayload{
			Name:  employee.Name,
			Email: employee.Email,
			Role:  employee.Role,
		},
	})
	return &AuthResult{Employee: employee, Token: token}, nil
}

// Login authenticates an employee. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError(msgMissingCredentials, nil)
	}

	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	token, err := s.tokenMgr.GenerateToken(employee.ID, employee.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &AuthResult{Employee: employee, Token: token}, nil
}

// CurrentEmployee resolves the authenticated employee.
func (s *AuthService) CurrentEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Employee", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err))
	}
}
