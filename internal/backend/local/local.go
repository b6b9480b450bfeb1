// Package local implements the backend contracts over a gorm database. It is
// the in-process stand-in for the managed backend: the dev server mounts it
// behind HTTP, tests and the demo client can use it directly.
package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/schoolspace/schoolspace/internal/backend"
	"github.com/schoolspace/schoolspace/internal/models"
	"github.com/schoolspace/schoolspace/validation"
)

const (
	// maxFailedAttempts sign-in failures within failureWindow trip the
	// too_many_requests response until the window passes.
	maxFailedAttempts = 5
	failureWindow     = 15 * time.Minute

	minPasswordLen = 6
)

// Backend implements backend.AuthService, ProfileStore, Directory and
// PostStore over gorm. It also tracks the current signed-in identity and
// fans auth-state transitions out to subscribers.
type Backend struct {
	db *gorm.DB

	mu      sync.Mutex
	current *backend.Identity
	nextSub int
	subs    map[int]func(*backend.Identity)
}

// New creates a backend over an already-migrated database.
func New(db *gorm.DB) *Backend {
	return &Backend{
		db:   db,
		subs: make(map[int]func(*backend.Identity)),
	}
}

// SubscribeAuthState registers fn for sign-in/sign-out transitions. The
// current state is delivered immediately, then one event per transition.
func (b *Backend) SubscribeAuthState(fn func(*backend.Identity)) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	cur := b.current
	b.mu.Unlock()

	fn(cur)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// setIdentity records the new identity and notifies subscribers, but only on
// an actual transition. Callbacks run outside the lock.
func (b *Backend) setIdentity(ident *backend.Identity) {
	b.mu.Lock()
	if sameIdentity(b.current, ident) {
		b.mu.Unlock()
		return
	}
	b.current = ident
	fns := make([]func(*backend.Identity), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

func sameIdentity(a, b *backend.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// Authenticate checks credentials and, on success, emits a signed-in
// auth-state transition.
func (b *Backend) Authenticate(ctx context.Context, email, password string) (backend.Identity, error) {
	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	if !v.Empty() {
		return backend.Identity{}, backend.NewAuthError(backend.KindInvalidEmail, nil)
	}

	var acc models.Account
	if err := b.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return backend.Identity{}, backend.NewAuthError(backend.KindUserNotFound, nil)
		}
		return backend.Identity{}, fmt.Errorf("look up account: %w", err)
	}

	if acc.Disabled {
		return backend.Identity{}, backend.NewAuthError(backend.KindUserDisabled, nil)
	}
	if b.rateLimited(acc) {
		return backend.Identity{}, backend.NewAuthError(backend.KindTooManyRequests, nil)
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		b.recordFailure(ctx, &acc)
		return backend.Identity{}, backend.NewAuthError(backend.KindWrongPassword, nil)
	}

	if acc.FailedAttempts > 0 {
		b.db.WithContext(ctx).Model(&acc).
			Updates(map[string]any{"failed_attempts": 0, "last_failed_at": nil})
	}

	ident := backend.Identity{ID: acc.ID, Email: acc.Email}
	b.setIdentity(&ident)
	return ident, nil
}

func (b *Backend) rateLimited(acc models.Account) bool {
	if acc.FailedAttempts < maxFailedAttempts || acc.LastFailedAt == nil {
		return false
	}
	return time.Since(*acc.LastFailedAt) < failureWindow
}

func (b *Backend) recordFailure(ctx context.Context, acc *models.Account) {
	now := time.Now()
	attempts := acc.FailedAttempts + 1
	// stale failures outside the window restart the count
	if acc.LastFailedAt != nil && now.Sub(*acc.LastFailedAt) >= failureWindow {
		attempts = 1
	}
	b.db.WithContext(ctx).Model(acc).
		Updates(map[string]any{"failed_attempts": attempts, "last_failed_at": now})
}

// Register creates an account and emits a signed-in transition. No profile is
// written here; that is the sign-up action's second step.
func (b *Backend) Register(ctx context.Context, email, password string) (backend.Identity, error) {
	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	if !v.Empty() {
		return backend.Identity{}, backend.NewAuthError(backend.KindInvalidEmail, nil)
	}
	v = validation.Violations{}
	validation.MinLen("password", password, minPasswordLen, v)
	if !v.Empty() {
		return backend.Identity{}, backend.NewAuthError(backend.KindWeakPassword, nil)
	}

	var count int64
	if err := b.db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return backend.Identity{}, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return backend.Identity{}, backend.NewAuthError(backend.KindEmailInUse, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return backend.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	acc := models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := b.db.WithContext(ctx).Create(&acc).Error; err != nil {
		return backend.Identity{}, backend.NewAuthError(backend.KindEmailInUse, err)
	}

	ident := backend.Identity{ID: acc.ID, Email: acc.Email}
	b.setIdentity(&ident)
	return ident, nil
}

// Deauthenticate clears the signed-in identity and emits a signed-out
// transition. Signing out while signed out is a no-op.
func (b *Backend) Deauthenticate(ctx context.Context) error {
	b.setIdentity(nil)
	return nil
}

// RequestPasswordReset records a reset request for the account's email. A
// managed backend would send the email from here.
func (b *Backend) RequestPasswordReset(ctx context.Context, email string) error {
	var acc models.Account
	if err := b.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return backend.NewAuthError(backend.KindUserNotFound, nil)
		}
		return fmt.Errorf("look up account: %w", err)
	}
	reset := models.PasswordReset{
		ID:          uuid.NewString(),
		Email:       acc.Email,
		Token:       uuid.NewString(),
		RequestedAt: time.Now(),
	}
	if err := b.db.WithContext(ctx).Create(&reset).Error; err != nil {
		return fmt.Errorf("record password reset: %w", err)
	}
	return nil
}

// CurrentIdentity returns the signed-in identity, or nil.
func (b *Backend) CurrentIdentity() *backend.Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	ident := *b.current
	return &ident
}
