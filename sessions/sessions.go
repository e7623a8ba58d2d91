// Package sessions defines the session store contract backing the gateway's
// authentication gate. A session binds an opaque, caller-supplied token to an
// authenticated subject (an account/phone number). Tokens are looked up, never
// parsed: the store is the single source of truth for who a token belongs to.
//
// Sessions have no expiry and no revocation in the base design; a registered
// token stays valid for the lifetime of the process. The Store interface keeps
// that policy swappable: a hardened implementation (server-generated, expiring
// tokens) can replace the in-memory reference without touching the gate.
//
// Implementations
//
//	memory : mutex-guarded in-memory reference used by the demo gateway and tests
package sessions

import (
	"context"
	"errors"
)

// ErrTokenNotFound indicates the token has never been registered.
var ErrTokenNotFound = errors.New("session token not found")

// Store maps opaque session tokens to authenticated subjects. Stores are
// process-wide shared state hit concurrently by every in-flight request,
// including long-lived streams; Register and Resolve must each be atomic
// under concurrent use.
type Store interface {
	// Register binds token to subject, unconditionally overwriting any prior
	// binding for that token. No format validation is performed on either value.
	Register(ctx context.Context, token string, subject string) error

	// Resolve returns the subject bound to token. Unknown tokens yield
	// ErrTokenNotFound rather than an empty subject.
	Resolve(ctx context.Context, token string) (string, error)
}
