// Package auth handles user accounts and authentication for Jot:
// registration, login, logout, session management, and atomic account
// deletion. Sessions are opaque random tokens stored in Redis and carried
// by an HttpOnly cookie.
package auth

import (
	"time"
)

// Field length limits, mirrored by the users table columns.
const (
	maxUsernameLen = 20
	maxEmailLen    = 50
	maxNameLen     = 30
	maxPasswordLen = 72 // bcrypt only reads the first 72 bytes
)

// User represents a registered Jot user. The username is the primary
// identity: unique, immutable, and the owner key for notes.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// --- Request DTOs (bound from HTTP forms) ---

// RegisterRequest holds the data submitted by the registration form.
type RegisterRequest struct {
	Username  string `form:"username"`
	Password  string `form:"password"`
	Email     string `form:"email"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
}

// LoginRequest holds the data submitted by the login form.
type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// --- Service input DTOs (passed from handler to service) ---

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Username string
	Password string
}

// --- Session ---

// Session represents an authenticated user session stored in Redis. The
// session token is the key, and this struct is the value (JSON-encoded).
// It holds exactly one attribute of interest: the authenticated username.
// The username is trusted once set -- it is never re-checked against the
// users table on each request, only against resource owners.
type Session struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
