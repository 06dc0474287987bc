package vecino

import (
	"context"

	"github.com/goliatone/go-router"
)

var sessionCtxKey = &contextKey{"session"}
var identityCtxKey = &contextKey{"identity"}

// LocalsSessionKey and LocalsUserKey are the router locals the gate
// populates so templates and handlers share one source of identity.
const (
	LocalsSessionKey = "session"
	LocalsUserKey    = "current_user"
)

type contextKey struct {
	name string
}

// WithSessionContext sets the verified Session in the given context
func WithSessionContext(r context.Context, session Session) context.Context {
	return context.WithValue(r, sessionCtxKey, session)
}

// SessionFromContext finds the verified session in the context
func SessionFromContext(ctx context.Context) (Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(Session)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// WithIdentityContext sets the verified Identity in the given context
func WithIdentityContext(r context.Context, identity Identity) context.Context {
	return context.WithValue(r, identityCtxKey, identity)
}

// IdentityFromContext finds the verified identity in the context
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(Identity)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// IdentityFromRouter extracts the verified identity the gate stashed in
// router locals. Handlers use this instead of re-deriving identity.
func IdentityFromRouter(ctx router.Context) (Identity, bool) {
	raw := ctx.Locals(LocalsUserKey)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}

// SessionFromRouter extracts the verified session from router locals.
func SessionFromRouter(ctx router.Context) (Session, bool) {
	raw := ctx.Locals(LocalsSessionKey)
	if raw == nil {
		return nil, false
	}
	session, ok := raw.(Session)
	return session, ok
}

// RoleFromRouter resolves the closed-enum role for the request, guest
// when unauthenticated or the claim is unknown.
func RoleFromRouter(ctx router.Context) UserRole {
	identity, ok := IdentityFromRouter(ctx)
	if !ok {
		return RoleGuest
	}
	role, _ := ParseRole(identity.Role())
	return role
}
