// Package backend defines the contracts of the managed backend the client
// core delegates to: the auth service and the profile document store. Two
// implementations exist: internal/backend/local (gorm, in-process) and
// internal/backend/rest (HTTP client for the dev backend server).
package backend

import (
	"context"
	"errors"

	"github.com/schoolspace/schoolspace/internal/models"
)

// Identity is the externally issued authenticated-principal handle. It is
// owned by the auth service; the session store only holds a reference.
type Identity struct {
	ID    string
	Email string
}

// AuthService is the external auth provider contract. Implementations emit at
// most one auth-state event per authentication transition (sign-in or
// sign-out); a token refresh is not a transition.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	Register(ctx context.Context, email, password string) (Identity, error)
	Deauthenticate(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
	// SubscribeAuthState registers fn for auth-state changes. fn receives the
	// current identity immediately on subscribe (nil when signed out), then
	// the new identity on every transition. The returned function removes
	// the subscription.
	SubscribeAuthState(fn func(*Identity)) (unsubscribe func())
}

// ErrProfileNotFound reports a clean miss: the profile simply does not exist
// yet, as opposed to the read having failed.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore is the document-store contract for user profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (models.Profile, error)
	SetProfile(ctx context.Context, profile models.Profile) error
}

// Directory lists member profiles for the search screen. An empty query
// returns everyone.
type Directory interface {
	SearchProfiles(ctx context.Context, query string) ([]models.Profile, error)
}

// PostStore is the document-store contract for the feed.
type PostStore interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	ListPosts(ctx context.Context, limit int) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error
}
