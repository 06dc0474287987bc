package main

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AppConfig is the root configuration container. Values load from
// config files and environment overrides via go-config.
type AppConfig struct {
	Server      Server      `json:"server" yaml:"server"`
	Gate        Gate        `json:"gate" yaml:"gate"`
	Provider    Provider    `json:"provider" yaml:"provider"`
	Persistence Persistence `json:"persistence" yaml:"persistence"`
}

func (a *AppConfig) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Provider),
	)
}

type Server struct {
	Address    string `json:"address" yaml:"address"`
	CSRFSecret string `json:"csrf_secret" yaml:"csrf_secret"`
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8591"
	}
	return s.Address
}

func (s Server) GetCSRFSecret() string {
	if s.CSRFSecret == "" {
		return "vecino-dev-csrf-secret"
	}
	return s.CSRFSecret
}

// Gate configures the route gate and its session cookies. It satisfies
// the portal's Config interface.
type Gate struct {
	AdminPrefix       string `json:"admin_prefix" yaml:"admin_prefix"`
	LoginPath         string `json:"login_path" yaml:"login_path"`
	UnauthorizedPath  string `json:"unauthorized_path" yaml:"unauthorized_path"`
	RedirectQueryKey  string `json:"redirect_query_key" yaml:"redirect_query_key"`
	AccessCookieName  string `json:"access_cookie_name" yaml:"access_cookie_name"`
	RefreshCookieName string `json:"refresh_cookie_name" yaml:"refresh_cookie_name"`
	CookieDuration    int    `json:"cookie_duration" yaml:"cookie_duration"`
	SecureCookies     bool   `json:"secure_cookies" yaml:"secure_cookies"`
}

func (g Gate) GetAdminPrefix() string {
	if g.AdminPrefix == "" {
		return "/admin"
	}
	return g.AdminPrefix
}

func (g Gate) GetLoginPath() string {
	if g.LoginPath == "" {
		return "/login"
	}
	return g.LoginPath
}

func (g Gate) GetUnauthorizedPath() string {
	if g.UnauthorizedPath == "" {
		return "/unauthorized"
	}
	return g.UnauthorizedPath
}

func (g Gate) GetRedirectQueryKey() string {
	if g.RedirectQueryKey == "" {
		return "redirect"
	}
	return g.RedirectQueryKey
}

func (g Gate) GetAccessCookieName() string {
	if g.AccessCookieName == "" {
		return "sb-access-token"
	}
	return g.AccessCookieName
}

func (g Gate) GetRefreshCookieName() string {
	if g.RefreshCookieName == "" {
		return "sb-refresh-token"
	}
	return g.RefreshCookieName
}

// GetCookieDuration is the cookie lifetime in hours.
func (g Gate) GetCookieDuration() int {
	if g.CookieDuration == 0 {
		return 24 * 7
	}
	return g.CookieDuration
}

func (g Gate) GetSecureCookies() bool {
	return g.SecureCookies
}

// Provider points at the identity service.
type Provider struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	APIKey    string `json:"api_key" yaml:"api_key"`
	JWTSecret string `json:"jwt_secret" yaml:"jwt_secret"`
	JWKSURL   string `json:"jwks_url" yaml:"jwks_url"`
}

func (p Provider) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.BaseURL, validation.Required),
		validation.Field(&p.APIKey, validation.Required),
	)
}

type Persistence struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

func (p Persistence) GetDSN() string {
	if p.DSN == "" {
		return "file:vecino.db?cache=shared&mode=rwc"
	}
	return p.DSN
}
