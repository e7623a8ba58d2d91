package memory

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/finvel/fingate/sessions"
)

func TestResolveUnknownToken(t *testing.T) {
	s := NewStore()

	_, err := s.Resolve(t.Context(), "never-registered")
	if !errors.Is(err, sessions.ErrTokenNotFound) {
		t.Fatalf("want ErrTokenNotFound, got %v", err)
	}
}

func TestRegisterThenResolve(t *testing.T) {
	s := NewStore()

	if err := s.Register(t.Context(), "abc", "91234"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// The binding must hold for every subsequent call until overwritten.
	for i := 0; i < 3; i++ {
		subject, err := s.Resolve(t.Context(), "abc")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if subject != "91234" {
			t.Fatalf("want subject %q, got %q", "91234", subject)
		}
	}
}

func TestRegisterOverwrites(t *testing.T) {
	s := NewStore()

	if err := s.Register(t.Context(), "abc", "91234"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := s.Register(t.Context(), "abc", "95678"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	subject, err := s.Resolve(t.Context(), "abc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if subject != "95678" {
		t.Fatalf("want subject %q, got %q", "95678", subject)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("want 1 binding after overwrite, got %d", got)
	}
}

func TestConcurrentRegisterAndResolve(t *testing.T) {
	s := NewStore()

	// Exercise the synchronization contract: concurrent registers and
	// resolves across overlapping tokens must not race (run with -race).
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", n%4)
			for j := 0; j < 100; j++ {
				if err := s.Register(t.Context(), token, fmt.Sprintf("subject-%d", n)); err != nil {
					t.Errorf("Register failed: %v", err)
					return
				}
				if _, err := s.Resolve(t.Context(), token); err != nil {
					t.Errorf("Resolve failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if got := s.Len(); got != 4 {
		t.Fatalf("want 4 distinct tokens, got %d", got)
	}
}
