package nav

import "testing"

func TestRouteGroups(t *testing.T) {
	if RouteLogin.Group() != GroupAuth {
		t.Fatal("login should be in the auth group")
	}
	if RouteRegister.Group() != GroupAuth {
		t.Fatal("register should be in the auth group")
	}
	if RouteHome.Group() != GroupMain {
		t.Fatal("home should be in the main group")
	}
	if RouteCreatePost.Group() != GroupMain {
		t.Fatal("create-post should be in the main group")
	}
}

func TestPushReplaceBack(t *testing.T) {
	n := New(RouteHome)
	if n.Current() != RouteHome {
		t.Fatalf("expected home, got %s", n.Current())
	}

	n.Push(RouteSearch)
	if n.Current() != RouteSearch || n.Depth() != 2 {
		t.Fatalf("expected search at depth 2, got %s depth %d", n.Current(), n.Depth())
	}

	// Replace must not grow history
	n.Replace(RouteProfile)
	if n.Current() != RouteProfile || n.Depth() != 2 {
		t.Fatalf("expected profile at depth 2, got %s depth %d", n.Current(), n.Depth())
	}

	if !n.Back() {
		t.Fatal("expected back to succeed")
	}
	if n.Current() != RouteHome {
		t.Fatalf("expected home after back, got %s", n.Current())
	}
	if n.Back() {
		t.Fatal("expected back to fail at root")
	}
}

func TestSubscribe(t *testing.T) {
	n := New(RouteLogin)
	var seen []Route
	unsub := n.Subscribe(func(r Route) { seen = append(seen, r) })

	n.Push(RouteHome)
	n.Replace(RouteSearch)
	if len(seen) != 2 || seen[0] != RouteHome || seen[1] != RouteSearch {
		t.Fatalf("unexpected notifications: %v", seen)
	}

	unsub()
	n.Push(RouteProfile)
	if len(seen) != 2 {
		t.Fatalf("expected no notification after unsubscribe, got %v", seen)
	}
}
