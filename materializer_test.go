package vecino_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	vecino "github.com/vecino-labs/vecino"
)

func testSession(userID string) *vecino.SessionObject {
	exp := time.Now().Add(time.Hour)
	return &vecino.SessionObject{
		UserID:       userID,
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    &exp,
	}
}

func testIdentity(userID, role string) *vecino.VerifiedIdentity {
	return &vecino.VerifiedIdentity{
		UserID:    userID,
		UserEmail: "resident@example.com",
		UserRole:  role,
	}
}

func TestMaterialize_NoCookiesNoNetwork(t *testing.T) {
	client := new(MockIdentityClient)
	m := vecino.NewSessionMaterializer(client)

	session, identity := m.Materialize(context.Background(), vecino.SessionCookies{})

	assert.Nil(t, session)
	assert.Nil(t, identity)
	// neither decode nor verify may run for an anonymous request
	client.AssertNotCalled(t, "DecodeSession", mock.Anything)
	client.AssertNotCalled(t, "VerifySession", mock.Anything, mock.Anything)
}

func TestMaterialize_DecodeFailureCollapsesToAnonymous(t *testing.T) {
	client := new(MockIdentityClient)
	cookies := vecino.SessionCookies{AccessToken: "garbage"}

	client.On("DecodeSession", cookies).Return(nil, errors.New("malformed token"))

	m := vecino.NewSessionMaterializer(client)
	session, identity := m.Materialize(context.Background(), cookies)

	assert.Nil(t, session)
	assert.Nil(t, identity)
	client.AssertNotCalled(t, "VerifySession", mock.Anything, mock.Anything)
}

func TestMaterialize_DecodedSessionStillNeedsVerification(t *testing.T) {
	client := new(MockIdentityClient)
	cookies := vecino.SessionCookies{AccessToken: "valid-looking"}
	decoded := testSession("11111111-1111-1111-1111-111111111111")

	client.On("DecodeSession", cookies).Return(decoded, nil)
	client.On("VerifySession", mock.Anything, decoded).
		Return(nil, errors.New("session revoked"))

	m := vecino.NewSessionMaterializer(client)
	session, identity := m.Materialize(context.Background(), cookies)

	// a token that decodes locally but fails verification is worthless
	assert.Nil(t, session)
	assert.Nil(t, identity)
	client.AssertExpectations(t)
}

func TestMaterialize_VerifiedSessionPassesThrough(t *testing.T) {
	client := new(MockIdentityClient)
	cookies := vecino.SessionCookies{
		AccessToken:  "valid",
		RefreshToken: "refresh",
	}
	decoded := testSession("11111111-1111-1111-1111-111111111111")
	verified := testIdentity("11111111-1111-1111-1111-111111111111", "resident")

	client.On("DecodeSession", cookies).Return(decoded, nil)
	client.On("VerifySession", mock.Anything, decoded).Return(verified, nil)

	m := vecino.NewSessionMaterializer(client)
	session, identity := m.Materialize(context.Background(), cookies)

	assert.Equal(t, decoded, session)
	assert.Equal(t, verified, identity)
	client.AssertExpectations(t)
}

func TestMaterialize_RefreshCookieAloneStillAttemptsDecode(t *testing.T) {
	client := new(MockIdentityClient)
	cookies := vecino.SessionCookies{RefreshToken: "refresh-only"}

	client.On("DecodeSession", cookies).Return(nil, vecino.ErrUnableToDecodeSession)

	m := vecino.NewSessionMaterializer(client)
	session, identity := m.Materialize(context.Background(), cookies)

	assert.Nil(t, session)
	assert.Nil(t, identity)
	client.AssertExpectations(t)
}
