// Package policy holds the session-derived decision logic: the profile
// resolver (identity → profile, with graceful degradation) and the auth gate
// (session × route group → redirect).
package policy

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/models"
)

// ProfileResolver maps an identity to a display profile. It never returns an
// error: a missing or unreadable profile degrades to a synthesized default so
// the session store always reaches the ready state.
type ProfileResolver struct {
	store backend.ProfileStore
}

// NewProfileResolver creates a resolver over the given profile store.
func NewProfileResolver(store backend.ProfileStore) *ProfileResolver {
	return &ProfileResolver{store: store}
}

// Resolve fetches the stored profile for the identity. Absent profiles get
// the generic placeholder name; failed reads fall back to the email local
// part so the user still sees something of their own. Resolve performs no
// writes.
func (r *ProfileResolver) Resolve(ctx context.Context, ident backend.Identity) models.Profile {
	p, err := r.store.GetProfile(ctx, ident.ID)
	if err == nil {
		return p
	}

	if errors.Is(err, backend.ErrProfileNotFound) {
		return models.Profile{
			ID:          ident.ID,
			DisplayName: models.PlaceholderDisplayName,
			AvatarURL:   models.PlaceholderAvatarURL,
		}
	}

	// read failure: degrade, never propagate
	log.Printf("profile load error for %s (may be normal if rules restrict): %v", ident.ID, err)
	name := models.PlaceholderDisplayName
	if at := strings.Index(ident.Email, "@"); at > 0 {
		name = ident.Email[:at]
	}
	return models.Profile{
		ID:          ident.ID,
		DisplayName: name,
		AvatarURL:   models.PlaceholderAvatarURL,
	}
}
