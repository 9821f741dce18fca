package enums

import "fmt"

// UserRole is the platform-wide role carried in access tokens.
type UserRole string

const (
	UserRoleUser        UserRole = "user"
	UserRoleSalesperson UserRole = "salesperson"
	UserRoleAdmin       UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleUser,
	UserRoleSalesperson,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value matches the canonical role enum.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
