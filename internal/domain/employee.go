package domain

import "time"

// EmployeeRole is the access role carried in tokens.
type EmployeeRole string

const (
	EmployeeRoleCounselor EmployeeRole = "counselor"
	EmployeeRoleAdmin     EmployeeRole = "admin"
)

// DefaultEmployeeRole is assigned when registration omits a role.
const DefaultEmployeeRole = EmployeeRoleCounselor

// Valid reports whether r is a known role.
func (r EmployeeRole) Valid() bool {
	switch r {
	case EmployeeRoleCounselor, EmployeeRoleAdmin:
		return true
	}
	return false
}

// Employee is a CRM staff account. PasswordHash is never rendered to clients.
type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         EmployeeRole
	CreatedAt    time.Time
}

// EmployeeRef is the non-owning view of an employee embedded in enquiries.
type EmployeeRef struct {
	ID    string
	Name  string
	Email string
}
