package vecino

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Session holds attributes that are part of an auth session
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetAccessToken() string
	GetRefreshToken() string
	GetTokenType() string
	GetExpiresAt() *time.Time
	Expired(now time.Time) bool
}

// Identity holds the attributes of an identity as confirmed by the
// identity service
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// SessionCookies is the cookie pair a browser sends on every request.
// Either token may be empty when the corresponding cookie is absent.
type SessionCookies struct {
	AccessToken  string
	RefreshToken string
}

func (s SessionCookies) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// IdentityClient talks to the external identity service. DecodeSession
// is purely local. VerifySession is the authoritative check and always
// hits the service.
type IdentityClient interface {
	DecodeSession(cookies SessionCookies) (Session, error)
	VerifySession(ctx context.Context, session Session) (Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (Session, Identity, error)
	RefreshSession(ctx context.Context, refreshToken string) (Session, error)
	SignOut(ctx context.Context, session Session) error
	OnChange(fn IdentityChangeHandler) (unsubscribe func())
}

// Config holds gate and cookie options
type Config interface {
	GetAdminPrefix() string
	GetLoginPath() string
	GetUnauthorizedPath() string
	GetRedirectQueryKey() string
	GetAccessCookieName() string
	GetRefreshCookieName() string
	GetCookieDuration() int
	GetSecureCookies() bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] VECINO "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] VECINO "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] VECINO "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
