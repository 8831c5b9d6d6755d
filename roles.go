package blog

// UserRole is the user's role
type UserRole string

const (
	// RoleStandard is a regular account (create and manage own content)
	RoleStandard UserRole = "standard"
	// RoleAdmin can manage any content and categories
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStandard, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role carries the admin override
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{RoleStandard, RoleAdmin}
}
