package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	hash, err := hashPassword("pw123secret")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}

	if !verifyPassword("pw123secret", hash) {
		t.Error("expected correct password to verify")
	}
	if verifyPassword("wrong", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashPassword_PerCallSalt(t *testing.T) {
	h1, err := hashPassword("same-password")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	h2, err := hashPassword("same-password")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}

	if h1 == h2 {
		t.Error("expected two hashes of the same password to differ (random salt)")
	}
}

func TestHashPassword_FitsColumn(t *testing.T) {
	hash, err := hashPassword("pw123secret")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}

	// The users.password_hash column is VARCHAR(72).
	if len(hash) > 72 {
		t.Errorf("hash length %d exceeds column width 72", len(hash))
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected a bcrypt digest, got %q", hash)
	}
}
