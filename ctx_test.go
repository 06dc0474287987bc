package vecino_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vecino "github.com/vecino-labs/vecino"
)

func TestSessionContextRoundTrip(t *testing.T) {
	session := testSession("11111111-1111-1111-1111-111111111111")

	ctx := vecino.WithSessionContext(context.Background(), session)

	got, ok := vecino.SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, session.GetUserID(), got.GetUserID())

	_, ok = vecino.SessionFromContext(context.Background())
	assert.False(t, ok)
}

func TestIdentityContextRoundTrip(t *testing.T) {
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "staff")

	ctx := vecino.WithIdentityContext(context.Background(), identity)

	got, ok := vecino.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity.ID(), got.ID())

	_, ok = vecino.IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestIdentityFromRouter(t *testing.T) {
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "admin")

	ctx := new(MockContext)
	ctx.On("Locals", vecino.LocalsUserKey).Return(identity)

	got, ok := vecino.IdentityFromRouter(ctx)
	require.True(t, ok)
	assert.Equal(t, identity.ID(), got.ID())
}

func TestIdentityFromRouterMissing(t *testing.T) {
	ctx := new(MockContext)
	ctx.On("Locals", vecino.LocalsUserKey).Return(nil)

	_, ok := vecino.IdentityFromRouter(ctx)
	assert.False(t, ok)
}

func TestRoleFromRouter(t *testing.T) {
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "staff")

	ctx := new(MockContext)
	ctx.On("Locals", vecino.LocalsUserKey).Return(identity)

	assert.Equal(t, vecino.RoleStaff, vecino.RoleFromRouter(ctx))
}

func TestRoleFromRouterDefaultsToGuest(t *testing.T) {
	ctx := new(MockContext)
	ctx.On("Locals", vecino.LocalsUserKey).Return(nil)

	assert.Equal(t, vecino.RoleGuest, vecino.RoleFromRouter(ctx))

	unknown := testIdentity("11111111-1111-1111-1111-111111111111", "superuser")
	ctx2 := new(MockContext)
	ctx2.On("Locals", vecino.LocalsUserKey).Return(unknown)

	assert.Equal(t, vecino.RoleGuest, vecino.RoleFromRouter(ctx2))
}
