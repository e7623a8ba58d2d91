// Package auth decides whether a request may reach a protected handler. It
// defines the Authenticator contract used by the HTTP gate and the typed
// request-context carriage of the authenticated subject.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/finvel/fingate/sessions"
)

// ErrUnauthenticated indicates the request carried no resolvable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves an opaque token to an authenticated subject.
// Implementations return ErrUnauthenticated when the token does not resolve;
// any other error means the authentication backend itself failed.
type Authenticator interface {
	CheckAuthentication(ctx context.Context, token string) (subject string, err error)
}

var _ Authenticator = (*StoreAuthenticator)(nil)

// StoreAuthenticator authenticates tokens against a sessions.Store. Every call
// is an independent lookup; nothing is cached between requests.
type StoreAuthenticator struct {
	store sessions.Store
}

// NewStoreAuthenticator creates an authenticator backed by store.
func NewStoreAuthenticator(store sessions.Store) *StoreAuthenticator {
	return &StoreAuthenticator{store: store}
}

// CheckAuthentication resolves token via the session store. A token bound to
// an empty subject is treated as unauthenticated.
func (a *StoreAuthenticator) CheckAuthentication(ctx context.Context, token string) (string, error) {
	subject, err := a.store.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, sessions.ErrTokenNotFound) {
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("resolve session token: %w", err)
	}
	if subject == "" {
		return "", ErrUnauthenticated
	}
	return subject, nil
}
