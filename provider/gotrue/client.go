package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/vecino-labs/vecino"
)

var _ vecino.IdentityClient = (*Client)(nil)

// Client is the identity client for a GoTrue-compatible auth service.
type Client struct {
	config     Config
	http       *http.Client
	validator  *TokenValidator
	dispatcher *dispatcher
}

// NewClient builds the client and its local token validator.
func NewClient(cfg Config) (*Client, error) {
	validator, err := NewTokenValidator(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.baseURL() == "" {
		return nil, fmt.Errorf("gotrue: BaseURL is required")
	}

	return &Client{
		config:     cfg,
		http:       cfg.httpClient(),
		validator:  validator,
		dispatcher: newDispatcher(),
	}, nil
}

// Close releases the JWKS refresher and the event dispatcher.
func (c *Client) Close() {
	c.validator.Close()
	c.dispatcher.close()
}

// DecodeSession parses the access token from the cookie pair without
// any network traffic. The result is a hint, not an authorization.
func (c *Client) DecodeSession(cookies vecino.SessionCookies) (vecino.Session, error) {
	if cookies.Empty() {
		return nil, nil
	}

	if cookies.AccessToken == "" {
		return nil, vecino.ErrUnableToDecodeSession
	}

	claims, err := c.validator.Validate(cookies.AccessToken)
	if err != nil {
		return nil, err
	}

	session, err := sessionFromAccessClaims(claims)
	if err != nil {
		return nil, err
	}

	session.AccessToken = cookies.AccessToken
	session.RefreshToken = cookies.RefreshToken

	return session, nil
}

// VerifySession asks the service to confirm the session. This is the
// authoritative check: whatever the local decode said, only the
// service response establishes the identity.
func (c *Client) VerifySession(ctx context.Context, session vecino.Session) (vecino.Identity, error) {
	if session == nil || session.GetAccessToken() == "" {
		return nil, vecino.ErrSessionRejected
	}

	var user userPayload
	if err := c.do(ctx, http.MethodGet, "/user", session.GetAccessToken(), nil, &user); err != nil {
		return nil, err
	}

	if user.ID == "" {
		return nil, goerrors.Wrap(vecino.ErrSessionRejected, goerrors.CategoryAuth, "identity service returned no user").
			WithCode(goerrors.CodeUnauthorized)
	}

	return user.identity(), nil
}

// SignInWithPassword performs the password grant and announces the new
// session to subscribers.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (vecino.Session, vecino.Identity, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var token tokenPayload
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &token); err != nil {
		return nil, nil, err
	}

	session, identity, err := token.session()
	if err != nil {
		return nil, nil, err
	}

	c.dispatcher.emit(vecino.EventSignedIn, session, identity)

	return session, identity, nil
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (vecino.Session, error) {
	body := map[string]string{
		"refresh_token": refreshToken,
	}

	var token tokenPayload
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &token); err != nil {
		return nil, err
	}

	session, identity, err := token.session()
	if err != nil {
		return nil, err
	}

	c.dispatcher.emit(vecino.EventTokenRefreshed, session, identity)

	return session, nil
}

// SignOut revokes the session server side. The SIGNED_OUT event is
// emitted even when revocation fails: the local session is over either
// way, and the event's sequence number fences off anything emitted
// before the sign out started.
func (c *Client) SignOut(ctx context.Context, session vecino.Session) error {
	var err error
	if session != nil && session.GetAccessToken() != "" {
		err = c.do(ctx, http.MethodPost, "/logout", session.GetAccessToken(), nil, nil)
	}

	c.dispatcher.emit(vecino.EventSignedOut, nil, nil)

	return err
}

// OnChange subscribes to identity change events.
func (c *Client) OnChange(fn vecino.IdentityChangeHandler) func() {
	return c.dispatcher.subscribe(fn)
}

// AnnounceInitialSession emits INITIAL_SESSION for a session restored
// from cookies, letting stores hydrate without a round trip.
func (c *Client) AnnounceInitialSession(session vecino.Session, user vecino.Identity) {
	c.dispatcher.emit(vecino.EventInitialSession, session, user)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.baseURL()+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIKey != "" {
		req.Header.Set("apikey", c.config.APIKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "identity service unreachable")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return goerrors.Wrap(vecino.ErrSessionRejected, goerrors.CategoryAuth, "identity service rejected credentials").
			WithCode(goerrors.CodeUnauthorized).
			WithMetadata(map[string]any{"status": res.StatusCode})
	}

	if res.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return goerrors.New("identity service error", goerrors.CategoryInternal).
			WithMetadata(map[string]any{
				"status": res.StatusCode,
				"body":   string(payload),
			})
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode identity service response")
	}

	return nil
}

type userPayload struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	AppMetadata map[string]any `json:"app_metadata"`
}

func (u userPayload) identity() *vecino.VerifiedIdentity {
	role := ""
	if u.AppMetadata != nil {
		if r, ok := u.AppMetadata["role"].(string); ok {
			role = r
		}
	}

	return &vecino.VerifiedIdentity{
		UserID:    u.ID,
		UserEmail: u.Email,
		UserRole:  role,
	}
}

type tokenPayload struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
	User         userPayload `json:"user"`
}

func (t tokenPayload) session() (*vecino.SessionObject, *vecino.VerifiedIdentity, error) {
	if t.AccessToken == "" {
		return nil, nil, vecino.ErrSessionRejected
	}

	identity := t.User.identity()

	expiresAt := time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	session := &vecino.SessionObject{
		UserID:       t.User.ID,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresAt:    &expiresAt,
		Email:        t.User.Email,
		RoleClaim:    identity.UserRole,
	}

	return session, identity, nil
}

func sessionFromAccessClaims(claims *vecino.AccessClaims) (*vecino.SessionObject, error) {
	if claims == nil {
		return nil, vecino.ErrUnableToMapClaims
	}

	session := &vecino.SessionObject{
		UserID:    claims.UserID(),
		Email:     claims.Email,
		RoleClaim: claims.Role(),
	}

	if claims.RegisteredClaims.IssuedAt != nil {
		iat := claims.RegisteredClaims.IssuedAt.Time
		session.IssuedAt = &iat
	}

	if claims.RegisteredClaims.ExpiresAt != nil {
		exp := claims.RegisteredClaims.ExpiresAt.Time
		session.ExpiresAt = &exp
	}

	return session, nil
}
