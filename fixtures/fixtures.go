// Package fixtures abstracts the per-subject data blobs the gateway serves.
// A fixture is addressed by (subject, resource) and read fresh from the
// underlying storage on every access: the gateway is a byte-transparent proxy
// and makes no staleness guarantee beyond "reflects the storage as of this
// read". Implementations must not cache.
package fixtures

import (
	"context"
	"errors"
)

// ErrNotFound indicates no blob exists for the (subject, resource) pair.
var ErrNotFound = errors.New("fixture not found")

// Provider reads fixture blobs. Reads are independent and self-contained, so
// concurrent use by any number of requests is safe.
type Provider interface {
	// Read returns the current bytes for (subject, resource). Missing blobs
	// yield an error wrapping ErrNotFound.
	Read(ctx context.Context, subject string, resource string) ([]byte, error)

	// Subjects enumerates the subjects for which fixtures exist.
	Subjects(ctx context.Context) ([]string, error)
}
