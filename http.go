package vecino

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

// GateDecision is the outcome of the route authorization check.
type GateDecision int

const (
	// DecisionAllow lets the request through to its handler
	DecisionAllow GateDecision = iota
	// DecisionLogin redirects an unauthenticated request to the login page
	DecisionLogin
	// DecisionForbidden redirects an authenticated but under-privileged
	// request to the unauthorized page
	DecisionForbidden
)

// RouteGuard materializes the request identity, stashes it for
// downstream handlers, and enforces the admin area gate.
type RouteGuard struct {
	materializer *SessionMaterializer
	cfg          Config
	Logger       Logger

	cookieDuration time.Duration
}

func NewRouteGuard(materializer *SessionMaterializer, cfg Config) (*RouteGuard, error) {
	cookieDuration := 24 * time.Hour
	if cfg.GetCookieDuration() > 0 {
		cookieDuration = time.Duration(cfg.GetCookieDuration()) * time.Hour
	}

	g := &RouteGuard{
		materializer:   materializer,
		cfg:            cfg,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}

	return g, nil
}

func (g RouteGuard) GetCookieDuration() time.Duration {
	return g.cookieDuration
}

// Decide is the pure authorization rule for a single request. It is
// idempotent: the same session, identity, and path always produce the
// same decision, so it can be exercised in isolation.
func (g *RouteGuard) Decide(session Session, user Identity, path string) GateDecision {
	if !strings.HasPrefix(path, g.cfg.GetAdminPrefix()) {
		return DecisionAllow
	}

	if session == nil || user == nil {
		return DecisionLogin
	}

	role, _ := ParseRole(user.Role())
	if !role.CanManageBuildings() {
		return DecisionForbidden
	}

	return DecisionAllow
}

// LoginRedirectURL builds the login URL carrying the originally
// requested path so a successful login can resume it.
func (g *RouteGuard) LoginRedirectURL(path string) string {
	return g.cfg.GetLoginPath() + "?" + g.cfg.GetRedirectQueryKey() + "=" + url.QueryEscape(path)
}

// Middleware runs before every handler. Identity is resolved exactly
// once per request and shared through router locals and the request
// context, never re-derived downstream.
func (g *RouteGuard) Middleware() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			cookies := SessionCookies{
				AccessToken:  ctx.Cookies(g.cfg.GetAccessCookieName()),
				RefreshToken: ctx.Cookies(g.cfg.GetRefreshCookieName()),
			}

			session, user := g.materializer.Materialize(ctx.Context(), cookies)

			if session != nil && user != nil {
				ctx.Locals(LocalsSessionKey, session)
				ctx.Locals(LocalsUserKey, user)

				reqCtx := WithSessionContext(ctx.Context(), session)
				reqCtx = WithIdentityContext(reqCtx, user)
				ctx.SetContext(reqCtx)
			}

			path := ctx.Path()

			switch g.Decide(session, user, path) {
			case DecisionLogin:
				g.Logger.Info("unauthenticated request to %s, redirecting to login", path)
				return ctx.Redirect(g.LoginRedirectURL(path), http.StatusSeeOther)
			case DecisionForbidden:
				g.Logger.Info("user %s lacks admin role for %s", user.ID(), path)
				return ctx.Redirect(g.cfg.GetUnauthorizedPath(), http.StatusSeeOther)
			}

			return next(ctx)
		}
	}
}

// SetSessionCookies writes the access and refresh cookie pair. Path is
// always "/" so every route, asset fetch included, carries the session.
func (g *RouteGuard) SetSessionCookies(c router.Context, session Session) {
	g.setCookie(c, g.cfg.GetAccessCookieName(), session.GetAccessToken(), g.cookieDuration)
	g.setCookie(c, g.cfg.GetRefreshCookieName(), session.GetRefreshToken(), g.cookieDuration)
}

// ClearSessionCookies expires both cookies, again on Path "/".
func (g *RouteGuard) ClearSessionCookies(c router.Context) {
	g.cookieDel(c, g.cfg.GetAccessCookieName())
	g.cookieDel(c, g.cfg.GetRefreshCookieName())
}

func (g *RouteGuard) setCookie(c router.Context, name, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    val,
		Path:     "/",
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   g.cfg.GetSecureCookies(),
		SameSite: "Lax",
	})
}

func (g *RouteGuard) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   g.cfg.GetSecureCookies(),
		SameSite: "Lax",
	})
}
