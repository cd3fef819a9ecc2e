package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

func newGuardedApp(tm *TokenManager, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	handlers := append([]fiber.Handler{NewAuthMiddleware(tm).Handle}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(principal.EmployeeID)
	})
	app.Get("/private", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	token, err := tm.GenerateToken("emp-7", domain.EmployeeRoleCounselor)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"malformed token", "Bearer abc.def", http.StatusUnauthorized},
		{"valid token", "Bearer " + token.Value, http.StatusOK},
		{"case-insensitive scheme", "bearer " + token.Value, http.StatusOK},
	}

	app := newGuardedApp(tm)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	counselor, err := tm.GenerateToken("emp-1", domain.EmployeeRoleCounselor)
	require.NoError(t, err)
	admin, err := tm.GenerateToken("emp-2", domain.EmployeeRoleAdmin)
	require.NoError(t, err)

	app := newGuardedApp(tm, RequireRole(domain.EmployeeRoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+counselor.Value)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+admin.Value)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRolesFromStrings(t *testing.T) {
	roles := RolesFromStrings([]string{"admin", "counselor"})
	require.Equal(t, []domain.EmployeeRole{domain.EmployeeRoleAdmin, domain.EmployeeRoleCounselor}, roles)
	require.Empty(t, RolesFromStrings(nil))
}
