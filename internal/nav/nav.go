// Package nav is a minimal navigation stack mirroring the mobile app's
// router: routes belong to the auth group or the main group, and the auth
// gate confines each session state to its group via history-replacing
// redirects.
package nav

import (
	"strings"
	"sync"
)

// Route is a screen path. The "(auth)" prefix marks the unauthenticated flow.
type Route string

const (
	RouteLogin      Route = "/(auth)/login"
	RouteRegister   Route = "/(auth)/register"
	RouteHome       Route = "/(tabs)"
	RouteSearch     Route = "/(tabs)/search"
	RouteProfile    Route = "/(tabs)/profile"
	RouteCreatePost Route = "/create-post"
)

// Group partitions routes for the auth gate.
type Group int

const (
	// GroupAuth is the sign-in/sign-up flow.
	GroupAuth Group = iota
	// GroupMain is everything else; requires a signed-in session.
	GroupMain
)

// Group classifies the route.
func (r Route) Group() Group {
	if strings.HasPrefix(string(r), "/(auth)") {
		return GroupAuth
	}
	return GroupMain
}

// Navigator holds the route stack and notifies subscribers on every change.
type Navigator struct {
	mu      sync.Mutex
	stack   []Route
	nextSub int
	subs    map[int]func(Route)
}

// New creates a navigator showing the initial route.
func New(initial Route) *Navigator {
	return &Navigator{
		stack: []Route{initial},
		subs:  make(map[int]func(Route)),
	}
}

// Current returns the route on top of the stack.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack[len(n.stack)-1]
}

// Push navigates forward, keeping history.
func (n *Navigator) Push(r Route) {
	n.mu.Lock()
	n.stack = append(n.stack, r)
	n.notifyLocked(r)
}

// Replace swaps the current route without leaving a history entry, so the
// user cannot navigate back to the replaced screen.
func (n *Navigator) Replace(r Route) {
	n.mu.Lock()
	n.stack[len(n.stack)-1] = r
	n.notifyLocked(r)
}

// Back pops the stack. Returns false when already at the root.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	if len(n.stack) == 1 {
		n.mu.Unlock()
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	n.notifyLocked(n.stack[len(n.stack)-1])
	return true
}

// Depth returns the number of stacked routes.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}

// Subscribe registers fn for every route change.
func (n *Navigator) Subscribe(fn func(Route)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// notifyLocked snapshots subscribers, releases the lock, and calls them.
func (n *Navigator) notifyLocked(r Route) {
	fns := make([]func(Route), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(r)
	}
}
