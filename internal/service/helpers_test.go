package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// recordingDispatcher keeps published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	auth       *AuthService
	enquiries  *EnquiryService
	dispatcher *recordingDispatcher
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	employees := repository.NewMemoryEmployeeRepository()
	enquiries := repository.NewMemoryEnquiryRepository(employees)
	dispatcher := &recordingDispatcher{}
	return &fixture{
		auth:       NewAuthService(testConfig(), AuthDependencies{EmployeeRepo: employees, Dispatcher: dispatcher}),
		enquiries:  NewEnquiryService(EnquiryDependencies{EnquiryRepo: enquiries, Dispatcher: dispatcher}),
		dispatcher: dispatcher,
	}
}

func (f *fixture) register(t *testing.T, name, email string) string {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "password1"})
	require.NoError(t, err)
	return res.Employee.ID
}

func requireCode(t *testing.T, err error, code string, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, code, de.Code, de.Message)
	require.Equal(t, status, de.HTTPStatus)
	return de
}
