package policy

import (
	"github.com/schoolspace/schoolspace/internal/nav"
	"github.com/schoolspace/schoolspace/internal/session"
)

// Decision is the navigation action the auth gate requires.
type Decision int

const (
	// DecisionNone means the session and route group are consistent.
	DecisionNone Decision = iota
	// DecisionToLogin redirects a signed-out user off a protected screen.
	DecisionToLogin
	// DecisionToHome redirects a signed-in user out of the auth flow.
	DecisionToHome
)

// Decide maps (session state, route group) to the required action. It is a
// pure function: while the session is still resolving it never redirects,
// preventing a flicker to the login screen before the auth state is known.
func Decide(s session.Session, group nav.Group) Decision {
	if s.Resolving {
		return DecisionNone
	}
	switch {
	case !s.SignedIn() && group != nav.GroupAuth:
		return DecisionToLogin
	case s.SignedIn() && group == nav.GroupAuth:
		return DecisionToHome
	}
	return DecisionNone
}

// AuthGate keeps a session store and a navigator consistent for the lifetime
// of the binding, re-evaluating Decide on every change to either input.
type AuthGate struct {
	store *session.Store
	nav   *nav.Navigator
}

// NewAuthGate wires the gate to its two inputs.
func NewAuthGate(store *session.Store, navigator *nav.Navigator) *AuthGate {
	return &AuthGate{store: store, nav: navigator}
}

// Bind applies the gate once immediately, then on every session or route
// change until the returned unbind function is called. Redirects replace
// history so a signed-out user cannot navigate back to a protected screen.
func (g *AuthGate) Bind() (unbind func()) {
	unsubSession := g.store.Subscribe(func(session.Session) { g.apply() })
	unsubNav := g.nav.Subscribe(func(nav.Route) { g.apply() })
	g.apply()
	return func() {
		unsubSession()
		unsubNav()
	}
}

// apply executes the current decision. A redirect changes the route, which
// re-triggers apply; the second pass decides DecisionNone, so each transition
// redirects exactly once.
func (g *AuthGate) apply() {
	switch Decide(g.store.Current(), g.nav.Current().Group()) {
	case DecisionToLogin:
		g.nav.Replace(nav.RouteLogin)
	case DecisionToHome:
		g.nav.Replace(nav.RouteHome)
	}
}
