package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// RequireRole ensures the principal has one of the allowed roles.
// With no roles it only requires authentication.
func RequireRole(allowed ...domain.EmployeeRole) fiber.Handler {
	allowedSet := make(map[domain.EmployeeRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Not authorized")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RolesFromStrings converts role names validated by config.Load.
func RolesFromStrings(names []string) []domain.EmployeeRole {
	roles := make([]domain.EmployeeRole, 0, len(names))
	for _, name := range names {
		roles = append(roles, domain.EmployeeRole(name))
	}
	return roles
}
