package vecino

import (
	"context"
)

// SessionMaterializer turns the cookie pair of an incoming request into
// a trusted (session, identity) pair.
//
// The contract is strict: a locally decoded token is never enough. Any
// session that decodes must survive a verification round trip with the
// identity service before handlers see it. Every failure along the way
// collapses to (nil, nil) so the rest of the request pipeline only has
// to distinguish "authenticated" from "not".
type SessionMaterializer struct {
	client IdentityClient
	logger Logger
}

func NewSessionMaterializer(client IdentityClient, opts ...func(*SessionMaterializer)) *SessionMaterializer {
	m := &SessionMaterializer{
		client: client,
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func WithMaterializerLogger(logger Logger) func(*SessionMaterializer) {
	return func(m *SessionMaterializer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Materialize resolves the request identity. It never returns an error:
// verification failures are logged and collapse to (nil, nil).
func (m *SessionMaterializer) Materialize(ctx context.Context, cookies SessionCookies) (Session, Identity) {
	if cookies.Empty() {
		// no cookie, no network call
		return nil, nil
	}

	session, err := m.client.DecodeSession(cookies)
	if err != nil || session == nil {
		if err != nil {
			m.logger.Debug("session decode failed: %v", err)
		}
		return nil, nil
	}

	identity, err := m.client.VerifySession(ctx, session)
	if err != nil || identity == nil {
		if err != nil {
			m.logger.Info("session verification rejected for user %s: %v", session.GetUserID(), err)
		}
		return nil, nil
	}

	return session, identity
}
