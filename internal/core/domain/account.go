package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the department an account belongs to. The set is closed: every
// policy switches over it exhaustively and denies anything else.
type Role string

const (
	RoleManagement Role = "management"
	RoleCommercial Role = "commercial"
	RoleSupport    Role = "support"
)

// ParseRole converts user input to a Role, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleManagement, RoleCommercial, RoleSupport:
		return r, nil
	default:
		return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q (expected management, commercial or support)", s)}
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleManagement, RoleCommercial, RoleSupport:
		return true
	default:
		return false
	}
}

// Account models a staff member able to log in.
type Account struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Identity returns the identity an authenticated session for a carries.
func (a *Account) Identity() Identity {
	return Identity{AccountID: a.ID, Role: a.Role}
}
