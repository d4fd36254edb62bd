package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/jotspace/jot/internal/apperror"
)

// AuthService defines the business logic contract for accounts and
// sessions. Handlers call these methods -- they never touch the
// repository or the session store directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (token string, user *User, err error)

	// StartSession creates a session for a username that has already been
	// authenticated in this request (registration auto-login).
	StartSession(ctx context.Context, username string) (string, error)

	ValidateSession(ctx context.Context, token string) (*Session, error)
	DestroySession(ctx context.Context, token string) error

	// DeleteAccount removes the user and all their notes atomically.
	// The caller is responsible for destroying the session afterwards.
	DeleteAccount(ctx context.Context, username string) error

	// GetUser loads a user's profile record.
	GetUser(ctx context.Context, username string) (*User, error)
}

// authService implements AuthService with bcrypt hashing and Redis sessions.
type authService struct {
	repo     UserRepository
	sessions *SessionStore
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, sessions *SessionStore) AuthService {
	return &authService{
		repo:     repo,
		sessions: sessions,
	}
}

// Register creates a new user account. It validates the input, checks
// username uniqueness, hashes the password with bcrypt, and persists the
// user. A duplicate username yields apperror.Conflict and no partial
// write -- the insert is a single row, and the PK constraint backstops
// the pre-check under concurrent registration.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	// Check uniqueness before doing expensive hashing.
	exists, err := s.repo.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking username: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("username is already taken")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if apperror.IsCode(err, http.StatusConflict) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered", slog.String("username", user.Username))

	return user, nil
}

// Login authenticates a user by username and password. On success it
// creates a new session and returns the token for the cookie. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	user, err := s.authenticate(ctx, input)
	if err != nil {
		return "", nil, err
	}

	token, err := s.sessions.Create(ctx, user.Username)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	slog.Info("user logged in", slog.String("username", user.Username))

	return token, user, nil
}

// authenticate verifies credentials without creating a session. Both
// failure modes collapse into the same generic unauthorized error.
func (s *authService) authenticate(ctx context.Context, input LoginInput) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return nil, apperror.NewUnauthorized("invalid username or password")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized("invalid username or password")
	}

	return user, nil
}

// StartSession creates a session for an already-authenticated username.
func (s *authService) StartSession(ctx context.Context, username string) (string, error) {
	token, err := s.sessions.Create(ctx, username)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}
	return token, nil
}

// ValidateSession resolves a session token to its session data.
func (s *authService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	return s.sessions.Get(ctx, token)
}

// DestroySession removes a session, logging the user out.
func (s *authService) DestroySession(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// DeleteAccount removes the user together with all owned notes in one
// transaction.
func (s *authService) DeleteAccount(ctx context.Context, username string) error {
	if err := s.repo.DeleteCascade(ctx, username); err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return err
		}
		return apperror.NewInternal(fmt.Errorf("deleting account: %w", err))
	}

	slog.Info("account deleted", slog.String("username", username))

	return nil
}

// GetUser loads a user's profile record by username.
func (s *authService) GetUser(ctx context.Context, username string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if apperror.IsCode(err, http.StatusNotFound) {
			return nil, err
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}
	return user, nil
}

// validateRegisterInput enforces the field constraints backed by the users
// table columns. Returns apperror.Validation on the first violation.
func validateRegisterInput(input RegisterInput) error {
	switch {
	case input.Username == "":
		return apperror.NewValidation("username is required")
	case len(input.Username) > maxUsernameLen:
		return apperror.NewValidation(fmt.Sprintf("username must be at most %d characters", maxUsernameLen))
	case strings.ContainsAny(input.Username, " /"):
		return apperror.NewValidation("username must not contain spaces or slashes")
	case input.Password == "":
		return apperror.NewValidation("password is required")
	case len(input.Password) > maxPasswordLen:
		return apperror.NewValidation(fmt.Sprintf("password must be at most %d characters", maxPasswordLen))
	case input.Email == "":
		return apperror.NewValidation("email is required")
	case len(input.Email) > maxEmailLen:
		return apperror.NewValidation(fmt.Sprintf("email must be at most %d characters", maxEmailLen))
	case input.FirstName == "":
		return apperror.NewValidation("first name is required")
	case len(input.FirstName) > maxNameLen:
		return apperror.NewValidation(fmt.Sprintf("first name must be at most %d characters", maxNameLen))
	case input.LastName == "":
		return apperror.NewValidation("last name is required")
	case len(input.LastName) > maxNameLen:
		return apperror.NewValidation(fmt.Sprintf("last name must be at most %d characters", maxNameLen))
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return apperror.NewValidation("email address is not valid")
	}

	return nil
}
