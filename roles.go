package vecino

// UserRole is the closed set of roles the portal understands. Role
// checks go through the capability helpers below so call sites never
// compare raw strings.
type UserRole string

const (
	RoleGuest    UserRole = "guest"
	RoleResident UserRole = "resident"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleGuest, RoleResident, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManageBuildings gates the admin area: buildings, units, and any
// other back office surface. Admin only.
func (r UserRole) CanManageBuildings() bool {
	return r == RoleAdmin
}

// CanViewDailyVisitors covers the gate desk daily list and check-in.
func (r UserRole) CanViewDailyVisitors() bool {
	switch r {
	case RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanPreregisterVisitors covers resident-facing visitor flows.
func (r UserRole) CanPreregisterVisitors() bool {
	switch r {
	case RoleResident, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleGuest:    0,
		RoleResident: 1,
		RoleStaff:    2,
		RoleAdmin:    3,
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
		RoleGuest,
		RoleResident,
		RoleStaff,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type. Unknown or
// empty role claims come back as (RoleGuest, false) so callers fall
// through to the least privileged path.
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	if !role.IsValid() {
		return RoleGuest, false
	}
	return role, true
}
