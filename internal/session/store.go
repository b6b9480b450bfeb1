// Package session holds the process-wide "who is logged in and what is their
// profile" state. The Store is the single writer; everything else observes it
// through Subscribe. Credential actions (sign-in, sign-up, sign-out, password
// reset) live on the Store because they are its only other mutation path.
package session

import (
	"context"
	"sync"

	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/models"
)

// Session is the derived auth state: the current identity and its resolved
// profile. It is replaced wholesale on every transition, never mutated.
type Session struct {
	Identity *backend.Identity
	Profile  *models.Profile
	// Resolving is true until the first auth-state event has been fully
	// processed; no redirect decisions should be made while it is set.
	Resolving bool
}

// SignedIn reports whether an identity is present.
func (s Session) SignedIn() bool { return s.Identity != nil }

// Resolver maps an identity to a profile. Implementations must not fail:
// resolution degrades to a synthesized profile instead of returning an error.
type Resolver interface {
	Resolve(ctx context.Context, ident backend.Identity) models.Profile
}

// Store owns the Session record for the lifetime of the process.
//
// Every resolution claims a monotonically increasing ticket before it starts;
// publish discards results whose ticket is older than the last applied one.
// That way a slow subscription echo can never overwrite the profile a later
// sign-in or refresh already published.
type Store struct {
	auth     backend.AuthService
	profiles backend.ProfileStore
	resolver Resolver

	mu      sync.Mutex
	cur     Session
	seq     uint64 // last issued resolution ticket
	applied uint64 // ticket of the last published transition
	nextSub int
	subs    map[int]func(Session)
	unsub   func()
}

// New creates a Store in the resolving state. Call Start to attach it to the
// backend auth-state stream.
func New(auth backend.AuthService, profiles backend.ProfileStore, resolver Resolver) *Store {
	return &Store{
		auth:     auth,
		profiles: profiles,
		resolver: resolver,
		cur:      Session{Resolving: true},
		subs:     make(map[int]func(Session)),
	}
}

// Start subscribes to the backend auth-state stream. The subscription runs
// until Close. An identity-absent event publishes a ready signed-out session
// immediately; an identity-present event publishes only after the profile
// resolver has run.
func (s *Store) Start(ctx context.Context) {
	s.unsub = s.auth.SubscribeAuthState(func(ident *backend.Identity) {
		if ident == nil {
			s.publish(s.ticket(), Session{})
			return
		}
		s.resolveAndPublish(ctx, *ident)
	})
}

// Close detaches the store from the auth-state stream.
func (s *Store) Close() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// Current returns the session as of the last transition.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Subscribe registers fn for every future transition. All subscribers are
// read-only observers; the Store is the only writer.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// RefreshProfile re-runs the resolver for the current identity without
// changing the identity. Concurrent calls are not deduplicated; the ticket
// order decides which result sticks.
func (s *Store) RefreshProfile(ctx context.Context) {
	s.mu.Lock()
	ident := s.cur.Identity
	s.mu.Unlock()
	if ident == nil {
		return
	}
	s.resolveAndPublish(ctx, *ident)
}

func (s *Store) ticket() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// resolveAndPublish claims a ticket, resolves the profile, and publishes the
// result unless a newer transition has landed in the meantime.
func (s *Store) resolveAndPublish(ctx context.Context, ident backend.Identity) {
	t := s.ticket()
	profile := s.resolver.Resolve(ctx, ident)
	s.publish(t, Session{Identity: &ident, Profile: &profile})
}

// publish applies a transition and notifies subscribers. Transitions carrying
// a stale ticket are discarded. Callbacks run outside the lock.
func (s *Store) publish(ticket uint64, next Session) {
	s.mu.Lock()
	if ticket < s.applied {
		s.mu.Unlock()
		return
	}
	s.applied = ticket
	s.cur = next
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
