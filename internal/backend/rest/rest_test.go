package rest_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolspace/schoolspace/internal/api"
	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/backend/local"
	"github.com/schoolspace/schoolspace/internal/backend/rest"
	"github.com/schoolspace/schoolspace/internal/db"
	"github.com/schoolspace/schoolspace/internal/models"
)

// newClient spins up the real API over an in-memory database and points a
// rest client at it.
func newClient(t *testing.T) *rest.Client {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(local.New(conn)).Routes())
	t.Cleanup(srv.Close)
	return rest.New(srv.URL)
}

func TestAuthRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	var events []*backend.Identity
	unsub := c.SubscribeAuthState(func(ident *backend.Identity) { events = append(events, ident) })
	defer unsub()

	if len(events) != 1 || events[0] != nil {
		t.Fatalf("expected initial signed-out snapshot, got %v", events)
	}

	ident, err := c.Register(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if ident.ID == "" || ident.Email != "a@b.com" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if len(events) != 2 || events[1] == nil {
		t.Fatalf("expected sign-in event, got %v", events)
	}

	// the bearer token authorizes profile access
	if err := c.SetProfile(ctx, models.Profile{ID: ident.ID, DisplayName: "Ivan"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	p, err := c.GetProfile(ctx, ident.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.DisplayName != "Ivan" {
		t.Fatalf("expected Ivan, got %+v", p)
	}

	if err := c.Deauthenticate(ctx); err != nil {
		t.Fatalf("deauthenticate: %v", err)
	}
	if len(events) != 3 || events[2] != nil {
		t.Fatalf("expected sign-out event, got %v", events)
	}

	// without a token the profile endpoint rejects us
	if _, err := c.GetProfile(ctx, ident.ID); err == nil || errors.Is(err, backend.ErrProfileNotFound) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestAuthenticateMapsErrorKinds(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	if _, err := c.Register(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Deauthenticate(ctx); err != nil {
		t.Fatalf("deauthenticate: %v", err)
	}

	_, err := c.Authenticate(ctx, "a@b.com", "wrong-password")
	if backend.KindOf(err) != backend.KindWrongPassword {
		t.Fatalf("expected wrong_password, got %v", err)
	}

	_, err = c.Authenticate(ctx, "missing@b.com", "secret1")
	if backend.KindOf(err) != backend.KindUserNotFound {
		t.Fatalf("expected user_not_found, got %v", err)
	}

	_, err = c.Register(ctx, "a@b.com", "secret1")
	if backend.KindOf(err) != backend.KindEmailInUse {
		t.Fatalf("expected email_in_use, got %v", err)
	}
}

func TestTransportFailureIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()
	c := rest.New(srv.URL)

	_, err := c.Authenticate(context.Background(), "a@b.com", "secret1")
	if backend.KindOf(err) != backend.KindNetworkFailure {
		t.Fatalf("expected network_failure, got %v", err)
	}
}

func TestProfileNotFoundIsClean(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	if _, err := c.Register(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := c.GetProfile(ctx, "no-such-id"); !errors.Is(err, backend.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDirectoryAndFeed(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	ident, err := c.Register(ctx, "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.SetProfile(ctx, models.Profile{ID: ident.ID, DisplayName: "Іван Петренко", City: "Київ"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}

	found, err := c.SearchProfiles(ctx, "петренко")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].DisplayName != "Іван Петренко" {
		t.Fatalf("unexpected search result: %+v", found)
	}

	post, err := c.CreatePost(ctx, models.Post{Text: "Привіт усім"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.AuthorName != "Іван Петренко" {
		t.Fatalf("expected denormalized author, got %+v", post)
	}

	posts, err := c.ListPosts(ctx, 0)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != post.ID {
		t.Fatalf("unexpected feed: %+v", posts)
	}

	if err := c.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	posts, err = c.ListPosts(ctx, 0)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty feed, got %+v", posts)
	}
}
