package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword creates a bcrypt hash of the given password. bcrypt embeds
// a per-call random salt in the digest, so two hashes of the same password
// differ and no salt needs separate storage. The 60-character output fits
// the users.password_hash column.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword checks a plaintext password against a stored bcrypt hash.
// Comparison timing safety is bcrypt's responsibility, not ours.
func verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
