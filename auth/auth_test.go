package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/finvel/fingate/sessions"
	"github.com/finvel/fingate/sessions/memory"
)

func TestStoreAuthenticator(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		a := NewStoreAuthenticator(memory.NewStore())

		_, err := a.CheckAuthentication(t.Context(), "xyz")
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("want ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("registered token", func(t *testing.T) {
		store := memory.NewStore()
		if err := store.Register(t.Context(), "abc", "91234"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		a := NewStoreAuthenticator(store)

		subject, err := a.CheckAuthentication(t.Context(), "abc")
		if err != nil {
			t.Fatalf("CheckAuthentication failed: %v", err)
		}
		if subject != "91234" {
			t.Fatalf("want subject %q, got %q", "91234", subject)
		}
	})

	t.Run("empty subject is unauthenticated", func(t *testing.T) {
		store := memory.NewStore()
		if err := store.Register(t.Context(), "abc", ""); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		a := NewStoreAuthenticator(store)

		_, err := a.CheckAuthentication(t.Context(), "abc")
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("want ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("backend failure is not unauthenticated", func(t *testing.T) {
		a := NewStoreAuthenticator(failingStore{})

		_, err := a.CheckAuthentication(t.Context(), "abc")
		if err == nil || errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("want backend error, got %v", err)
		}
	})
}

func TestSubjectContext(t *testing.T) {
	if _, ok := SubjectFromContext(context.Background()); ok {
		t.Fatal("bare context must not carry a subject")
	}

	ctx := WithSubject(context.Background(), "91234")
	subject, ok := SubjectFromContext(ctx)
	if !ok || subject != "91234" {
		t.Fatalf("want subject %q, got %q (ok=%v)", "91234", subject, ok)
	}

	if _, ok := SubjectFromContext(WithSubject(context.Background(), "")); ok {
		t.Fatal("empty subject must not count as authenticated")
	}
}

// failingStore simulates an unavailable session backend.
type failingStore struct{}

func (failingStore) Register(ctx context.Context, token, subject string) error {
	return errors.New("store down")
}

func (failingStore) Resolve(ctx context.Context, token string) (string, error) {
	return "", errors.New("store down")
}

var _ sessions.Store = failingStore{}
