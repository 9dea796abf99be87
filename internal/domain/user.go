package domain

import "strings"

// Role is a user's access level.
type Role string

const (
	RoleEmployee Role = "EMP"
	RoleHR       Role = "HR"
	RoleAdmin    Role = "ADMIN"
)

// DefaultLanguage is used when a user has no language preference.
const DefaultLanguage = "English"

// User is an employee, HR handler or administrator.
type User struct {
	ID       string
	Name     string
	Role     Role
	Region   Region
	Language string
}

// IsHandler reports whether the user is eligible to own escalated tickets.
func (u *User) IsHandler() bool {
	return u != nil && u.Role == RoleHR
}

// CanManageTickets reports whether the user may view and act on tickets.
func (u *User) CanManageTickets() bool {
	return u != nil && (u.Role == RoleHR || u.Role == RoleAdmin)
}

// PreferredLanguage returns the user's language, falling back to English.
func (u *User) PreferredLanguage() string {
	if u == nil || strings.TrimSpace(u.Language) == "" {
		return DefaultLanguage
	}
	return u.Language
}

func isValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !isValidRole(r) {
		return "", ErrInvalidRole
	}
	return r, nil
}

// ValidateUser checks required fields on a new user.
func ValidateUser(u *User) error {
	if u == nil || strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Name) == "" {
		return ErrMissingRequiredField
	}
	if !isValidRole(u.Role) {
		return ErrInvalidRole
	}
	return nil
}
