package vecino

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrTokenExpired is the rich error for expired access tokens
var ErrTokenExpired = goerrors.New("authentication token expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is the rich error for tokens we cannot parse
var ErrTokenMalformed = goerrors.New("authentication token malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// ErrNoSessionCookie is returned when the request carries no session cookie
var ErrNoSessionCookie = errors.New("no session cookie")

// ErrUnableToDecodeSession unable to decode JWT from session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session")

// ErrSessionRejected is returned when the identity service refuses the session
var ErrSessionRejected = errors.New("session rejected")

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims")

// ErrNotOwner is returned when a resident touches a registration that
// belongs to someone else
var ErrNotOwner = errors.New("registration belongs to another resident")

// ErrGateCodeMismatch is returned when a check-in code does not match
var ErrGateCodeMismatch = errors.New("gate code mismatch")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
