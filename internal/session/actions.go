package session

import (
	"context"
	"fmt"

	"github.com/schoolspace/schoolspace/internal/models"
)

// SignIn authenticates against the backend and eagerly resolves and publishes
// the profile instead of waiting for the subscription round-trip. On failure
// the error carries a backend.Kind and the session is left untouched.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	ident, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	s.resolveAndPublish(ctx, ident)
	return nil
}

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
	City        string
	School      string
	ClassLabel  string
}

// SignUp registers a new identity, persists its profile, and publishes the
// session locally. If identity creation fails, no profile write is attempted.
// If the profile write fails after the identity exists, the error is returned
// and the subscription path is left to resolve a fallback profile; that
// inconsistency window is accepted rather than remediated here.
func (s *Store) SignUp(ctx context.Context, in SignUpInput) error {
	ident, err := s.auth.Register(ctx, in.Email, in.Password)
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}

	profile := models.Profile{
		ID:          ident.ID,
		DisplayName: in.DisplayName,
		City:        in.City,
		School:      in.School,
		ClassLabel:  in.ClassLabel,
		AvatarURL:   models.PlaceholderAvatarURL,
		IsAdmin:     false,
	}
	if err := s.profiles.SetProfile(ctx, profile); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}

	s.publish(s.ticket(), Session{Identity: &ident, Profile: &profile})
	return nil
}

// SignOut terminates the backend session and clears the local profile
// immediately, without waiting for the subscription echo.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.auth.Deauthenticate(ctx)
	s.publish(s.ticket(), Session{})
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// ResetPassword requests the backend-initiated email flow. No local state
// changes either way.
func (s *Store) ResetPassword(ctx context.Context, email string) error {
	if err := s.auth.RequestPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}
