package vecino_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vecino "github.com/vecino-labs/vecino"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected vecino.UserRole
		known    bool
	}{
		{"guest", vecino.RoleGuest, true},
		{"resident", vecino.RoleResident, true},
		{"staff", vecino.RoleStaff, true},
		{"admin", vecino.RoleAdmin, true},
		{"", vecino.RoleGuest, false},
		{"superuser", vecino.RoleGuest, false},
		{"Admin", vecino.RoleGuest, false},
	}

	for _, tt := range tests {
		t.Run("parse "+tt.input, func(t *testing.T) {
			role, ok := vecino.ParseRole(tt.input)
			assert.Equal(t, tt.expected, role)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role            vecino.UserRole
		manageBuildings bool
		viewDaily       bool
		preregister     bool
	}{
		{vecino.RoleGuest, false, false, false},
		{vecino.RoleResident, false, false, true},
		{vecino.RoleStaff, false, true, true},
		{vecino.RoleAdmin, true, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.manageBuildings, tt.role.CanManageBuildings())
			assert.Equal(t, tt.viewDaily, tt.role.CanViewDailyVisitors())
			assert.Equal(t, tt.preregister, tt.role.CanPreregisterVisitors())
		})
	}
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, vecino.RoleAdmin.IsAtLeast(vecino.RoleResident))
	assert.True(t, vecino.RoleStaff.IsAtLeast(vecino.RoleStaff))
	assert.False(t, vecino.RoleResident.IsAtLeast(vecino.RoleStaff))
	assert.False(t, vecino.RoleGuest.IsAtLeast(vecino.RoleResident))
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range vecino.GetAllRoles() {
		assert.True(t, role.IsValid(), "role %s should be valid", role)
	}
	assert.False(t, vecino.UserRole("superuser").IsValid())
}
