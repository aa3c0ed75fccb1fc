// ABOUTME: Unit tests for authentication context functions
// ABOUTME: Tests session claim propagation through context.Context

package auth

import (
	"context"
	"testing"
)

func TestFromContext_Present(t *testing.T) {
	expected := &SessionClaims{
		Email:    "maria@sample.com",
		Name:     "Maria Santos",
		Remember: true,
	}

	ctx := WithSession(context.Background(), expected)
	got := FromContext(ctx)

	if got == nil {
		t.Fatal("FromContext() = nil, want non-nil")
	}

	if got.Email != expected.Email {
		t.Errorf("Email = %q, want %q", got.Email, expected.Email)
	}

	if got.Name != expected.Name {
		t.Errorf("Name = %q, want %q", got.Name, expected.Name)
	}

	if got.Remember != expected.Remember {
		t.Errorf("Remember = %v, want %v", got.Remember, expected.Remember)
	}
}

func TestFromContext_Missing(t *testing.T) {
	ctx := context.Background()
	got := FromContext(ctx)

	if got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}

func TestMustFromContext_Present(t *testing.T) {
	expected := &SessionClaims{Email: "juan@sample.com"}

	ctx := WithSession(context.Background(), expected)

	// Should not panic
	got := MustFromContext(ctx)

	if got.Email != expected.Email {
		t.Errorf("Email = %q, want %q", got.Email, expected.Email)
	}
}

func TestMustFromContext_Missing(t *testing.T) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustFromContext() did not panic when session missing")
		}
	}()

	MustFromContext(ctx)
}
