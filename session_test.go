package vecino_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vecino "github.com/vecino-labs/vecino"
)

func TestSessionObject_TokenTypeDefaultsToBearer(t *testing.T) {
	session := &vecino.SessionObject{}
	assert.Equal(t, "bearer", session.GetTokenType())

	session.TokenType = "mac"
	assert.Equal(t, "mac", session.GetTokenType())
}

func TestSessionObject_Expired(t *testing.T) {
	now := time.Now()

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name      string
		expiresAt *time.Time
		expired   bool
	}{
		{"future expiry", &future, false},
		{"past expiry", &past, true},
		{"exact expiry", &now, true},
		{"missing expiry", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &vecino.SessionObject{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expired, session.Expired(now))
		})
	}
}

func TestSessionObject_GetUserUUID(t *testing.T) {
	session := &vecino.SessionObject{UserID: "11111111-1111-1111-1111-111111111111"}

	id, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", id.String())

	session.UserID = "not-a-uuid"
	_, err = session.GetUserUUID()
	assert.Error(t, err)
}

func TestVerifiedIdentity_ParsedRole(t *testing.T) {
	identity := &vecino.VerifiedIdentity{
		UserID:    "11111111-1111-1111-1111-111111111111",
		UserEmail: "resident@example.com",
		UserRole:  "resident",
	}

	assert.Equal(t, vecino.RoleResident, identity.ParsedRole())

	identity.UserRole = "made-up"
	assert.Equal(t, vecino.RoleGuest, identity.ParsedRole())
}

func TestSessionObject_StringOmitsTokens(t *testing.T) {
	exp := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	session := vecino.SessionObject{
		UserID:      "11111111-1111-1111-1111-111111111111",
		AccessToken: "super-secret-token",
		TokenType:   "bearer",
		ExpiresAt:   &exp,
	}

	out := session.String()
	assert.Contains(t, out, "user=11111111-1111-1111-1111-111111111111")
	assert.NotContains(t, out, "super-secret-token")
}
