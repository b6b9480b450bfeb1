package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/backend/local"
	"github.com/schoolspace/schoolspace/internal/db"
	"github.com/schoolspace/schoolspace/internal/policy"
	"github.com/schoolspace/schoolspace/internal/session"
)

func newLocalStore(t *testing.T) (*session.Store, *local.Backend) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	b := local.New(conn)
	return session.New(b, b, policy.NewProfileResolver(b)), b
}

func TestSignUpPublishesFreshProfile(t *testing.T) {
	s, b := newLocalStore(t)
	ctx := context.Background()
	s.Start(ctx)
	defer s.Close()

	err := s.SignUp(ctx, session.SignUpInput{
		Email:       "a@b.com",
		Password:    "secret1",
		DisplayName: "Ivan",
		City:        "Київ",
		School:      "Ліцей №1",
		ClassLabel:  "10-А",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	cur := s.Current()
	if cur.Resolving || !cur.SignedIn() {
		t.Fatalf("expected ready signed-in session, got %+v", cur)
	}
	if cur.Identity.Email != "a@b.com" {
		t.Fatalf("expected signed-in email, got %q", cur.Identity.Email)
	}
	if cur.Profile.DisplayName != "Ivan" {
		t.Fatalf("expected display name Ivan, got %q", cur.Profile.DisplayName)
	}
	if cur.Profile.IsAdmin {
		t.Fatal("new accounts must not be admins")
	}

	// the profile was persisted, not just published locally
	stored, err := b.GetProfile(ctx, cur.Identity.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if stored.City != "Київ" || stored.School != "Ліцей №1" {
		t.Fatalf("unexpected stored profile: %+v", stored)
	}
}

func TestSignUpIdentityFailureSkipsProfileWrite(t *testing.T) {
	auth := &fakeAuth{registerErr: backend.NewAuthError(backend.KindEmailInUse, errors.New("taken"))}
	profiles := newCountingProfileStore()
	s := session.New(auth, profiles, policy.NewProfileResolver(profiles))
	s.Start(context.Background())
	defer s.Close()

	err := s.SignUp(context.Background(), session.SignUpInput{Email: "a@b.com", Password: "secret1", DisplayName: "Ivan"})
	if backend.KindOf(err) != backend.KindEmailInUse {
		t.Fatalf("expected email_in_use, got %v", err)
	}
	if profiles.writes != 0 {
		t.Fatalf("expected no profile writes, got %d", profiles.writes)
	}
	if s.Current().SignedIn() {
		t.Fatal("expected session to stay signed out")
	}
}

func TestSignUpProfileWriteFailureIsReported(t *testing.T) {
	auth := &fakeAuth{}
	profiles := newCountingProfileStore()
	profiles.setErr = errors.New("disk full")
	s := session.New(auth, profiles, policy.NewProfileResolver(profiles))
	s.Start(context.Background())
	defer s.Close()

	err := s.SignUp(context.Background(), session.SignUpInput{Email: "a@b.com", Password: "secret1", DisplayName: "Ivan"})
	if err == nil || !strings.Contains(err.Error(), "persist profile") {
		t.Fatalf("expected persist error, got %v", err)
	}
	if profiles.writes != 1 {
		t.Fatalf("expected one attempted write, got %d", profiles.writes)
	}
}

func TestSignInEagerlyPublishesProfile(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	if err := s.SignUp(ctx, session.SignUpInput{Email: "a@b.com", Password: "secret1", DisplayName: "Ivan"}); err != nil {
		t.Fatalf("seed sign up: %v", err)
	}
	if err := s.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	s.Start(ctx)
	defer s.Close()

	if err := s.SignIn(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	cur := s.Current()
	if !cur.SignedIn() || cur.Profile.DisplayName != "Ivan" {
		t.Fatalf("expected Ivan signed in, got %+v", cur)
	}
}

func TestSignInWrongPasswordLeavesSessionUntouched(t *testing.T) {
	s, _ := newLocalStore(t)
	ctx := context.Background()

	if err := s.SignUp(ctx, session.SignUpInput{Email: "a@b.com", Password: "secret1", DisplayName: "Ivan"}); err != nil {
		t.Fatalf("seed sign up: %v", err)
	}
	if err := s.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	s.Start(ctx)
	defer s.Close()

	before := s.Current()
	err := s.SignIn(ctx, "a@b.com", "wrong-password")
	if backend.KindOf(err) != backend.KindWrongPassword {
		t.Fatalf("expected wrong_password, got %v", err)
	}
	after := s.Current()
	if after.SignedIn() || after.Resolving != before.Resolving {
		t.Fatalf("expected unchanged session, got %+v", after)
	}
}

func TestSignOutClearsSessionImmediately(t *testing.T) {
	// Deauthenticate on the fake does not echo through the subscription, so a
	// cleared session here proves the store does not wait for it.
	profiles := newCountingProfileStore()
	auth := &fakeAuth{current: &backend.Identity{ID: "acc-1", Email: "a@b.com"}}
	s := session.New(auth, profiles, policy.NewProfileResolver(profiles))
	s.Start(context.Background())
	defer s.Close()

	if !s.Current().SignedIn() {
		t.Fatal("expected signed-in session before sign-out")
	}
	if err := s.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	cur := s.Current()
	if cur.SignedIn() || cur.Profile != nil || cur.Resolving {
		t.Fatalf("expected cleared session, got %+v", cur)
	}
}

func TestResetPasswordPassesThrough(t *testing.T) {
	auth := &fakeAuth{}
	profiles := newCountingProfileStore()
	s := session.New(auth, profiles, policy.NewProfileResolver(profiles))

	if err := s.ResetPassword(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	auth.resetErr = backend.NewAuthError(backend.KindUserNotFound, nil)
	err := s.ResetPassword(context.Background(), "missing@b.com")
	if backend.KindOf(err) != backend.KindUserNotFound {
		t.Fatalf("expected user_not_found, got %v", err)
	}
}
