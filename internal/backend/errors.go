package backend

import "errors"

// Kind is a machine-readable auth failure category. The set is closed; the
// i18n catalog carries a localized message for every kind, so display code
// can match exhaustively instead of switching on loose provider strings.
type Kind string

const (
	KindInvalidEmail      Kind = "invalid_email"
	KindUserNotFound      Kind = "user_not_found"
	KindWrongPassword     Kind = "wrong_password"
	KindInvalidCredential Kind = "invalid_credential"
	KindTooManyRequests   Kind = "too_many_requests"
	KindUserDisabled      Kind = "user_disabled"
	KindEmailInUse        Kind = "email_in_use"
	KindWeakPassword      Kind = "weak_password"
	KindNetworkFailure    Kind = "network_failure"
	KindUnknown           Kind = "unknown"
)

// knownKinds guards ParseKind against arbitrary strings from the wire.
var knownKinds = map[Kind]bool{
	KindInvalidEmail:      true,
	KindUserNotFound:      true,
	KindWrongPassword:     true,
	KindInvalidCredential: true,
	KindTooManyRequests:   true,
	KindUserDisabled:      true,
	KindEmailInUse:        true,
	KindWeakPassword:      true,
	KindNetworkFailure:    true,
	KindUnknown:           true,
}

// ParseKind maps a wire string to a Kind, folding anything unknown to
// KindUnknown.
func ParseKind(s string) Kind {
	k := Kind(s)
	if knownKinds[k] {
		return k
	}
	return KindUnknown
}

// AuthError is a credential-action failure with a closed kind.
type AuthError struct {
	Kind Kind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError builds an AuthError wrapping an optional cause.
func NewAuthError(kind Kind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

// KindOf extracts the kind from an error chain. Non-auth errors report
// KindUnknown.
func KindOf(err error) Kind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
