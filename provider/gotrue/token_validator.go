package gotrue

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/vecino-labs/vecino"
)

// TokenValidator decodes and verifies access tokens locally, either
// with a shared HS256 secret or against the service JWKS endpoint.
// Local verification is only the cheap first step; authorization still
// requires a VerifySession round trip.
type TokenValidator struct {
	config  Config
	jwks    *keyfunc.JWKS
	keyFunc jwt.Keyfunc
	methods []string
}

// NewTokenValidator creates a validator from the config. JWTSecret
// wins over JWKSURL when both are set.
func NewTokenValidator(cfg Config) (*TokenValidator, error) {
	v := &TokenValidator{config: cfg}

	if cfg.JWTSecret != "" {
		secret := []byte(cfg.JWTSecret)
		v.keyFunc = func(token *jwt.Token) (any, error) {
			return secret, nil
		}
		v.methods = []string{"HS256"}
		return v, nil
	}

	if cfg.JWKSURL == "" {
		return nil, fmt.Errorf("gotrue: either JWTSecret or JWKSURL is required")
	}

	refreshInterval := cfg.JWKSRefreshInterval
	if refreshInterval == 0 {
		refreshInterval = time.Hour
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		RefreshInterval:   refreshInterval,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gotrue: failed to load JWKS from %s: %w", cfg.JWKSURL, err)
	}

	v.jwks = jwks
	v.keyFunc = jwks.Keyfunc
	v.methods = []string{"RS256", "ES256"}

	return v, nil
}

// Validate parses and verifies a raw access token, returning its
// claims.
func (v *TokenValidator) Validate(tokenString string) (*vecino.AccessClaims, error) {
	claims := &vecino.AccessClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		v.keyFunc,
		jwt.WithValidMethods(v.methods),
	)
	if err != nil {
		return nil, normalizeValidationError(err)
	}

	if !token.Valid {
		return nil, vecino.ErrTokenMalformed.Clone()
	}

	return claims, nil
}

// Close stops the background JWKS refresh, if one is running.
func (v *TokenValidator) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func normalizeValidationError(err error) error {
	if err == nil {
		return nil
	}

	clone := vecino.ErrTokenMalformed.Clone()
	if stderrors.Is(err, jwt.ErrTokenExpired) {
		clone = vecino.ErrTokenExpired.Clone()
	}

	if clone == nil {
		return err
	}

	clone.Source = err
	return clone.WithMetadata(map[string]any{
		"provider": "gotrue",
		"cause":    err.Error(),
	})
}
