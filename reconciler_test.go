package vecino_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	vecino "github.com/vecino-labs/vecino"
)

func TestIdentityStore_StartsLoading(t *testing.T) {
	store := vecino.NewIdentityStore()

	state := store.Snapshot()
	assert.True(t, state.Loading)
	assert.False(t, state.Authenticated())
	assert.Equal(t, vecino.PhaseUninitialized, store.Phase())
}

func TestIdentityStore_SubscribeFiresImmediately(t *testing.T) {
	store := vecino.NewIdentityStore()

	var states []vecino.IdentityState
	cancel := store.Subscribe(func(st vecino.IdentityState) {
		states = append(states, st)
	})
	defer cancel()

	require.Len(t, states, 1)
	assert.True(t, states[0].Loading)
}

func TestIdentityStore_CancelStopsNotifications(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	count := 0
	cancel := store.Subscribe(func(st vecino.IdentityState) { count++ })
	require.Equal(t, 1, count)

	cancel()

	reconciler.Hydrate(nil, nil)
	assert.Equal(t, 1, count)
}

func TestHydrate_AnonymousClearsLoading(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	reconciler.Hydrate(nil, nil)

	state := store.Snapshot()
	assert.False(t, state.Loading)
	assert.False(t, state.Authenticated())
	assert.Equal(t, vecino.PhaseReady, store.Phase())
}

func TestHydrate_SeedsServerSession(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	session := testSession("11111111-1111-1111-1111-111111111111")
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "resident")

	var phases []vecino.StorePhase
	store.Subscribe(func(st vecino.IdentityState) {
		phases = append(phases, store.Phase())
	})

	reconciler.Hydrate(session, identity)

	state := store.Snapshot()
	assert.True(t, state.Authenticated())
	assert.False(t, state.Loading)

	// hydration always passes through the loading phase before settling
	assert.Equal(t, []vecino.StorePhase{
		vecino.PhaseUninitialized,
		vecino.PhaseHydrating,
		vecino.PhaseReady,
	}, phases)
}

func TestApply_OrderedEventsEndSignedOut(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	session := testSession("11111111-1111-1111-1111-111111111111")
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "resident")

	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventSignedIn, Seq: 1, Session: session, User: identity})
	assert.True(t, store.Snapshot().Authenticated())

	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventTokenRefreshed, Seq: 2, Session: session, User: identity})
	assert.True(t, store.Snapshot().Authenticated())

	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventSignedOut, Seq: 3})

	state := store.Snapshot()
	assert.False(t, state.Authenticated())
	assert.Nil(t, state.Session)
	assert.Nil(t, state.User)
}

func TestApply_StaleEventCannotResurrectIdentity(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	session := testSession("11111111-1111-1111-1111-111111111111")
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "resident")

	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventSignedIn, Seq: 1, Session: session, User: identity})
	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventSignedOut, Seq: 3})

	// a slow in-flight refresh lands after the sign out
	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventTokenRefreshed, Seq: 2, Session: session, User: identity})

	state := store.Snapshot()
	assert.False(t, state.Authenticated())
}

func TestApply_DuplicateSeqDropped(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	session := testSession("11111111-1111-1111-1111-111111111111")
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "resident")

	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventSignedOut, Seq: 5})
	reconciler.Apply(vecino.IdentityEvent{Kind: vecino.EventSignedIn, Seq: 5, Session: session, User: identity})

	assert.False(t, store.Snapshot().Authenticated())
}

func TestSignOut_ClearsIdentityEvenWhenRevocationFails(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	session := testSession("11111111-1111-1111-1111-111111111111")
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "resident")
	reconciler.Hydrate(session, identity)

	client.On("SignOut", mock.Anything, mock.Anything).Return(errors.New("revocation endpoint down"))

	err := reconciler.SignOut(context.Background())
	require.Error(t, err)

	state := store.Snapshot()
	assert.False(t, state.Authenticated())
	assert.False(t, state.Loading)
	assert.Equal(t, "revocation endpoint down", state.Err)
	client.AssertExpectations(t)
}

func TestSignOut_SuccessLeavesNoError(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	session := testSession("11111111-1111-1111-1111-111111111111")
	identity := testIdentity("11111111-1111-1111-1111-111111111111", "resident")
	reconciler.Hydrate(session, identity)

	client.On("SignOut", mock.Anything, mock.Anything).Return(nil)

	var sawSigningOut bool
	store.Subscribe(func(st vecino.IdentityState) {
		if store.Phase() == vecino.PhaseSigningOut {
			sawSigningOut = true
		}
	})

	err := reconciler.SignOut(context.Background())
	require.NoError(t, err)

	state := store.Snapshot()
	assert.False(t, state.Authenticated())
	assert.Empty(t, state.Err)
	assert.True(t, sawSigningOut)
}

func TestStartSubscribesAndStopCancels(t *testing.T) {
	store := vecino.NewIdentityStore()
	client := new(MockIdentityClient)
	reconciler := vecino.NewIdentityReconciler(store, client)

	cancelled := false
	client.On("OnChange", mock.Anything).Return(func() { cancelled = true })

	reconciler.Start()
	reconciler.Stop()

	assert.True(t, cancelled)
	client.AssertExpectations(t)
}
