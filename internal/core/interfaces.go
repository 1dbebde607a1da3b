// Package core provides the client-side business logic for MatchiFy:
// the auth session controller, the talent profile controller, and the
// mission list/form state holders.
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/matchify/matchify-core/internal/domain/model"
)

// Preference keys persisted in the local preference store. The store itself
// is namespaced (user_prefs), so these are the bare key names.
const (
	PrefKeyRole       = "user_role"
	PrefKeyEmail      = "user_email"
	PrefKeyRememberMe = "remember_me"
	PrefKeyToken      = "user_token"
)

// ErrNotFound is returned by PreferenceStore.Get for absent keys.
var ErrNotFound = errors.New("preference not found")

// ErrInFlight is returned when a flow is invoked while its previous
// invocation is still in flight. The new request is a strict no-op.
var ErrInFlight = errors.New("operation already in flight")

// PreferenceStore defines the interface for durable, process-surviving
// key-value session storage. This follows the hexagonal architecture pattern
// where the core defines interfaces and the adapters provide implementations.
//
// Writes to the same key are last-writer-wins; this is single-user,
// single-device state. I/O failures surface as wrapped errors, never panics.
type PreferenceStore interface {
	// Set stores a string value under key.
	Set(ctx context.Context, key, value string) error

	// SetBool stores a boolean value under key.
	SetBool(ctx context.Context, key string, value bool) error

	// Get retrieves the value for key, or ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)

	// GetBool retrieves the boolean for key. An absent key reads as false.
	GetBool(ctx context.Context, key string) (bool, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key in the namespace.
	Clear(ctx context.Context) error
}

// AuthAPI defines the backend auth endpoints the session controller needs.
type AuthAPI interface {
	// Signup registers an account and returns the issued token and user.
	// Not idempotent.
	Signup(ctx context.Context, name, email, password string, role model.Role) (string, model.User, error)

	// Login exchanges credentials for a token. Safe to retry.
	Login(ctx context.Context, email, password string) (string, model.User, error)

	// ForgotPassword requests a password-reset email. Safe to retry.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a single-use reset token. Not idempotent.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// TalentAPI defines the backend talent-profile endpoints.
type TalentAPI interface {
	GetProfile(ctx context.Context, token string) (*model.TalentProfile, error)
	UpdateProfile(ctx context.Context, token string, upd model.ProfileUpdate) (*model.TalentProfile, error)
	UploadProfileImage(ctx context.Context, token, filename string, data []byte) (*model.TalentProfile, error)
	UploadBannerImage(ctx context.Context, token, filename string, data []byte) (*model.TalentProfile, error)
}

// ValidationError is a client-side input rejection. It is raised at the
// boundary before any network call and never reaches a flow's error state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// userMessenger is implemented by API errors that carry a message fit for
// showing to the user.
type userMessenger interface {
	Message() string
}

// failureMessage extracts the best human-readable message from err:
// payload message, then the transport-level error text, then fallback.
func failureMessage(err error, fallback string) string {
	var m userMessenger
	if errors.As(err, &m) {
		if msg := m.Message(); msg != "" {
			return msg
		}
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
