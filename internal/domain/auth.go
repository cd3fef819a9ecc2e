package domain

import "time"

// Token represents issued access token metadata.
type Token struct {
	Value      string
	EmployeeID string
	Role       EmployeeRole
	ExpiresAt  time.Time
}
