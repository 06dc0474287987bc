package vecino

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

// SessionObject is the concrete session the identity service hands out:
// an access token, the refresh token paired with it, and what we could
// read off the token locally. Holding one of these proves nothing; only
// a VerifySession round trip does.
type SessionObject struct {
	UserID       string     `json:"user_id,omitempty"`
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenType    string     `json:"token_type,omitempty"`
	IssuedAt     *time.Time `json:"issued_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Email        string     `json:"email,omitempty"`
	RoleClaim    string     `json:"role_claim,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetAccessToken() string {
	return s.AccessToken
}

func (s *SessionObject) GetRefreshToken() string {
	return s.RefreshToken
}

func (s *SessionObject) GetTokenType() string {
	if s.TokenType == "" {
		return "bearer"
	}
	return s.TokenType
}

func (s *SessionObject) GetExpiresAt() *time.Time {
	return s.ExpiresAt
}

// Expired reports whether the access token is past its expiry. A
// session without an expiry claim is treated as expired.
func (s *SessionObject) Expired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return true
	}
	return !now.Before(*s.ExpiresAt)
}

func (s SessionObject) String() string {
	expiresAt := "<nil>"
	if s.ExpiresAt != nil {
		expiresAt = s.ExpiresAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s type=%s exp=%s",
		s.UserID,
		s.TokenType,
		expiresAt,
	)
}

var _ Identity = &VerifiedIdentity{}

// VerifiedIdentity is the identity record the service confirms on a
// VerifySession round trip.
type VerifiedIdentity struct {
	UserID    string `json:"id"`
	UserEmail string `json:"email"`
	UserRole  string `json:"role"`
}

func (i *VerifiedIdentity) ID() string {
	return i.UserID
}

func (i *VerifiedIdentity) Email() string {
	return i.UserEmail
}

func (i *VerifiedIdentity) Role() string {
	return i.UserRole
}

// ParsedRole returns the closed-enum role for the identity, falling
// back to guest for unknown claims.
func (i *VerifiedIdentity) ParsedRole() UserRole {
	role, _ := ParseRole(i.UserRole)
	return role
}
