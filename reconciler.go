package vecino

import (
	"context"
	"sync"
)

// IdentityEventKind enumerates the identity change notifications the
// identity service emits.
type IdentityEventKind string

const (
	EventInitialSession   IdentityEventKind = "INITIAL_SESSION"
	EventSignedIn         IdentityEventKind = "SIGNED_IN"
	EventSignedOut        IdentityEventKind = "SIGNED_OUT"
	EventTokenRefreshed   IdentityEventKind = "TOKEN_REFRESHED"
	EventUserUpdated      IdentityEventKind = "USER_UPDATED"
	EventPasswordRecovery IdentityEventKind = "PASSWORD_RECOVERY"
)

// IdentityEvent is a single identity change notification. Seq is a
// monotonic sequence number assigned at emission; consumers discard
// events at or below the last sequence they applied.
type IdentityEvent struct {
	Kind    IdentityEventKind
	Seq     uint64
	Session Session
	User    Identity
}

type IdentityChangeHandler func(IdentityEvent)

// IdentityState is the snapshot observers receive. Loading is true
// from construction until the initial session resolves, and again for
// the duration of a sign-out.
type IdentityState struct {
	User    Identity
	Session Session
	Loading bool
	Err     string
}

func (s IdentityState) Authenticated() bool {
	return s.User != nil && s.Session != nil
}

// StorePhase tracks where the store is in its lifecycle.
type StorePhase int

const (
	PhaseUninitialized StorePhase = iota
	PhaseHydrating
	PhaseReady
	PhaseSigningOut
)

// IdentityStore is the single canonical observable holding the client
// view of the authenticated identity. There is exactly one per running
// client and it is always injected, never reached through a global.
type IdentityStore struct {
	mu      sync.Mutex
	state   IdentityState
	phase   StorePhase
	lastSeq uint64
	subs    map[int]func(IdentityState)
	nextSub int
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		state: IdentityState{Loading: true},
		phase: PhaseUninitialized,
		subs:  map[int]func(IdentityState){},
	}
}

// Snapshot returns the current state.
func (s *IdentityStore) Snapshot() IdentityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *IdentityStore) Phase() StorePhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Subscribe registers an observer. The observer is called immediately
// with the current state and again after every update. The returned
// function cancels the subscription.
func (s *IdentityStore) Subscribe(fn func(IdentityState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	state := s.state
	s.mu.Unlock()

	fn(state)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update mutates state under lock and notifies subscribers outside it.
// Updates are applied one at a time so observers always see each state
// transition in order.
func (s *IdentityStore) update(phase StorePhase, mutate func(*IdentityState)) {
	s.mu.Lock()
	mutate(&s.state)
	s.phase = phase
	state := s.state
	subs := make([]func(IdentityState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// advance reports whether seq supersedes everything applied so far and
// records it when it does.
func (s *IdentityStore) advance(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.lastSeq {
		return false
	}
	s.lastSeq = seq
	return true
}

// IdentityReconciler keeps the IdentityStore in sync with the identity
// service: it seeds the initial state from the server-rendered session
// and then applies ordered change events.
type IdentityReconciler struct {
	store       *IdentityStore
	client      IdentityClient
	logger      Logger
	unsubscribe func()
	mu          sync.Mutex
}

func NewIdentityReconciler(store *IdentityStore, client IdentityClient, opts ...func(*IdentityReconciler)) *IdentityReconciler {
	r := &IdentityReconciler{
		store:  store,
		client: client,
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func WithReconcilerLogger(logger Logger) func(*IdentityReconciler) {
	return func(r *IdentityReconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Hydrate resolves the initial state from the session the server
// rendered with, avoiding an extra round trip. A nil seed means the
// visitor is anonymous; loading clears either way.
func (r *IdentityReconciler) Hydrate(session Session, user Identity) {
	r.store.update(PhaseHydrating, func(st *IdentityState) {
		st.Loading = true
	})

	r.store.update(PhaseReady, func(st *IdentityState) {
		st.Session = session
		st.User = user
		st.Loading = false
		st.Err = ""
	})
}

// Start subscribes to identity change events. Safe to call once;
// subsequent calls replace the previous subscription.
func (r *IdentityReconciler) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.unsubscribe = r.client.OnChange(r.Apply)
}

// Stop cancels the event subscription.
func (r *IdentityReconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Apply folds one identity change event into the store. Events are
// applied atomically and in order; anything at or below the last
// applied sequence is stale and dropped, which is what keeps a slow
// in-flight notification from resurrecting a signed-out identity.
func (r *IdentityReconciler) Apply(ev IdentityEvent) {
	if !r.store.advance(ev.Seq) {
		r.logger.Debug("dropping stale identity event %s seq=%d", ev.Kind, ev.Seq)
		return
	}

	switch ev.Kind {
	case EventInitialSession, EventSignedIn, EventTokenRefreshed, EventUserUpdated, EventPasswordRecovery:
		r.store.update(PhaseReady, func(st *IdentityState) {
			st.Session = ev.Session
			st.User = ev.User
			st.Loading = false
			st.Err = ""
		})
	case EventSignedOut:
		r.store.update(PhaseReady, func(st *IdentityState) {
			st.Session = nil
			st.User = nil
			st.Loading = false
		})
	default:
		r.logger.Debug("ignoring unknown identity event kind %q", ev.Kind)
	}
}

// SignOut ends the session. The local identity is cleared no matter
// what the service answers; a revocation failure is recorded on the
// state but never blocks the local sign-out.
func (r *IdentityReconciler) SignOut(ctx context.Context) error {
	r.store.update(PhaseSigningOut, func(st *IdentityState) {
		st.Loading = true
		st.Err = ""
	})

	var session Session
	if st := r.store.Snapshot(); st.Session != nil {
		session = st.Session
	}

	err := r.client.SignOut(ctx, session)
	if err != nil {
		r.logger.Error("sign out revocation failed: %v", err)
	}

	r.store.update(PhaseReady, func(st *IdentityState) {
		st.Session = nil
		st.User = nil
		st.Loading = false
		if err != nil {
			st.Err = err.Error()
		}
	})

	return err
}
