package domain

import "time"

// Role is the job function of a console user.
type Role string

const (
	RoleManager          Role = "Manager"
	RoleDispatcher       Role = "Dispatcher"
	RoleSafetyOfficer    Role = "Safety Officer"
	RoleFinancialAnalyst Role = "Financial Analyst"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleDispatcher, RoleSafetyOfficer, RoleFinancialAnalyst:
		return true
	}
	return false
}

// User represents a console account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	OTP          string
	OTPExpiry    time.Time
	CreatedAt    time.Time
}
