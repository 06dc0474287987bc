package gotrue_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vecino "github.com/vecino-labs/vecino"
	"github.com/vecino-labs/vecino/provider/gotrue"
)

const testSecret = "super-secret-signing-key"

func mintToken(t *testing.T, secret string, mutate func(*vecino.AccessClaims)) string {
	t.Helper()

	claims := &vecino.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "11111111-1111-1111-1111-111111111111",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "resident@example.com",
		AppMetadata: map[string]any{
			"role": "resident",
		},
	}

	if mutate != nil {
		mutate(claims)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newValidator(t *testing.T) *gotrue.TokenValidator {
	t.Helper()
	v, err := gotrue.NewTokenValidator(gotrue.DefaultConfig("https://id.example.com/auth/v1", "anon-key", testSecret))
	require.NoError(t, err)
	return v
}

func TestNewTokenValidatorRequiresKeyMaterial(t *testing.T) {
	_, err := gotrue.NewTokenValidator(gotrue.Config{})
	assert.Error(t, err)
}

func TestValidate_ValidToken(t *testing.T) {
	v := newValidator(t)
	defer v.Close()

	claims, err := v.Validate(mintToken(t, testSecret, nil))
	require.NoError(t, err)

	assert.Equal(t, "11111111-1111-1111-1111-111111111111", claims.UserID())
	assert.Equal(t, "resident@example.com", claims.Email)
	assert.Equal(t, "resident", claims.Role())
}

func TestValidate_ExpiredToken(t *testing.T) {
	v := newValidator(t)
	defer v.Close()

	token := mintToken(t, testSecret, func(c *vecino.AccessClaims) {
		c.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	})

	_, err := v.Validate(token)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, "TOKEN_EXPIRED", richErr.TextCode)
}

func TestValidate_WrongSecret(t *testing.T) {
	v := newValidator(t)
	defer v.Close()

	_, err := v.Validate(mintToken(t, "some-other-secret", nil))
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, "TOKEN_MALFORMED", richErr.TextCode)
}

func TestValidate_Garbage(t *testing.T) {
	v := newValidator(t)
	defer v.Close()

	_, err := v.Validate("not.a.jwt")
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, "TOKEN_MALFORMED", richErr.TextCode)
}

func TestValidate_RoleMissingFromAppMetadata(t *testing.T) {
	v := newValidator(t)
	defer v.Close()

	token := mintToken(t, testSecret, func(c *vecino.AccessClaims) {
		c.AppMetadata = nil
	})

	claims, err := v.Validate(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Role())
}
