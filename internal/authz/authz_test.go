package authz

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jotspace/jot/internal/apperror"
)

func TestRequireOwner_Allows(t *testing.T) {
	if err := RequireOwner("alice", "alice"); err != nil {
		t.Fatalf("expected owner to be allowed, got %v", err)
	}
}

func TestRequireOwner_DeniesOtherUser(t *testing.T) {
	err := RequireOwner("bob", "alice")
	if err == nil {
		t.Fatal("expected non-owner to be denied")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T", err)
	}
	if appErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", appErr.Code)
	}
}

func TestRequireOwner_DeniesEmptySession(t *testing.T) {
	err := RequireOwner("", "alice")
	if err == nil {
		t.Fatal("expected empty session to be denied")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T", err)
	}
	if appErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", appErr.Code)
	}
}

func TestRequireOwner_CaseSensitive(t *testing.T) {
	// Usernames are exact identities; "Alice" does not own "alice"'s notes.
	if err := RequireOwner("Alice", "alice"); err == nil {
		t.Fatal("expected case-mismatched username to be denied")
	}
}
