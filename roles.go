package auth

// UserRole is the user's role
type UserRole = string

const (
	// RoleStudent is the default role for new registrations
	RoleStudent UserRole = "student"
	// RoleInstructor can own and manage courses
	RoleInstructor UserRole = "instructor"
	// RoleAdmin may act on any resource regardless of ownership
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleIsAtLeast checks if the role meets the minimum required level
func RoleIsAtLeast(r, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleStudent:    0,
		RoleInstructor: 1,
		RoleAdmin:      2,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleStudent,
		RoleInstructor,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole, falling back to the
// default registration role for empty input.
func ParseRole(roleStr string) (UserRole, bool) {
	if roleStr == "" {
		return RoleStudent, true
	}
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}
