package vecino

import (
	"maps"

	"github.com/goliatone/go-router"
)

var TemplateUserKey = LocalsUserKey

// TemplateHelpers returns helper functions and data for the view
// engine's global context.
//
// In templates:
//
//	{% if current_user %}
//	{% if current_user|has_role:"admin" %}
//	{% if current_user|can_manage_buildings %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated":     isAuthenticated,
		"has_role":             hasRole,
		"is_at_least":          isAtLeast,
		"can_manage_buildings": canManageBuildings,
		"can_view_daily":       canViewDailyVisitors,
		"can_preregister":      canPreregisterVisitors,

		"roles": map[string]string{
			"guest":    string(RoleGuest),
			"resident": string(RoleResident),
			"staff":    string(RoleStaff),
			"admin":    string(RoleAdmin),
		},
	}
}

// MergeTemplateData layers the request identity over view data so
// every template can rely on current_user being present or nil.
func MergeTemplateData(ctx router.Context, data router.ViewContext) router.ViewContext {
	merged := router.ViewContext{}
	maps.Copy(merged, data)

	if _, ok := merged[TemplateUserKey]; !ok {
		merged[TemplateUserKey] = ctx.Locals(TemplateUserKey)
	}

	return merged
}

func roleOf(user any) (UserRole, bool) {
	switch u := user.(type) {
	case Identity:
		if u == nil {
			return RoleGuest, false
		}
		role, _ := ParseRole(u.Role())
		return role, true
	case map[string]any:
		if raw, exists := u["role"]; exists {
			if roleStr, ok := raw.(string); ok {
				role, _ := ParseRole(roleStr)
				return role, true
			}
		}
		return RoleGuest, false
	default:
		return RoleGuest, false
	}
}

// isAuthenticated checks if the provided user object is not nil
func isAuthenticated(user any) bool {
	if user == nil {
		return false
	}

	switch u := user.(type) {
	case Identity:
		return u != nil && u.ID() != ""
	case map[string]any:
		return len(u) > 0
	default:
		return false
	}
}

// hasRole checks if the user has the specified role
func hasRole(user any, role string) bool {
	current, ok := roleOf(user)
	if !ok {
		return false
	}
	return string(current) == role
}

// isAtLeast checks if the user's role is at least the minimum required level
func isAtLeast(user any, minRole string) bool {
	current, ok := roleOf(user)
	if !ok {
		return false
	}
	return current.IsAtLeast(UserRole(minRole))
}

func canManageBuildings(user any) bool {
	current, ok := roleOf(user)
	return ok && current.CanManageBuildings()
}

func canViewDailyVisitors(user any) bool {
	current, ok := roleOf(user)
	return ok && current.CanViewDailyVisitors()
}

func canPreregisterVisitors(user any) bool {
	current, ok := roleOf(user)
	return ok && current.CanPreregisterVisitors()
}
