package vecino

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the shape of the access tokens the identity service
// mints. The role travels in app metadata so end users cannot grant
// themselves privileges through profile updates.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
}

// UserID returns the subject claim
func (c *AccessClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role string from app metadata, empty when absent
func (c *AccessClaims) Role() string {
	if c.AppMetadata == nil {
		return ""
	}
	if role, ok := c.AppMetadata["role"].(string); ok {
		return role
	}
	return ""
}

// Expires returns the expiration time
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
