package vecino_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	vecino "github.com/vecino-labs/vecino"
)

func TestRichTokenErrors(t *testing.T) {
	assert.Equal(t, goerrors.CategoryAuth, vecino.ErrTokenExpired.Category)
	assert.Equal(t, "TOKEN_EXPIRED", vecino.ErrTokenExpired.TextCode)

	assert.Equal(t, goerrors.CategoryAuth, vecino.ErrTokenMalformed.Category)
	assert.Equal(t, "TOKEN_MALFORMED", vecino.ErrTokenMalformed.TextCode)
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		vecino.ErrNoSessionCookie,
		vecino.ErrUnableToDecodeSession,
		vecino.ErrSessionRejected,
		vecino.ErrUnableToMapClaims,
		vecino.ErrNotOwner,
		vecino.ErrGateCodeMismatch,
	}

	for _, err := range sentinels {
		assert.NotEmpty(t, err.Error())
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, vecino.IsTokenExpiredError(nil))
	assert.False(t, vecino.IsTokenExpiredError(errors.New("something else")))
	assert.True(t, vecino.IsTokenExpiredError(errors.New("token is expired by 2h")))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, vecino.IsMalformedError(nil))
	assert.True(t, vecino.IsMalformedError(errors.New("token is malformed: bad segments")))
	assert.True(t, vecino.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, vecino.IsMalformedError(errors.New("token is expired")))
}
