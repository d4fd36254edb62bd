package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jotspace/jot/internal/apperror"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing.
type mockUserRepo struct {
	createFn         func(ctx context.Context, user *User) error
	findByUsernameFn func(ctx context.Context, username string) (*User, error)
	usernameExistsFn func(ctx context.Context, username string) (bool, error)
	deleteCascadeFn  func(ctx context.Context, username string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, apperror.NewNotFound("user not found")
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.usernameExistsFn != nil {
		return m.usernameExistsFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepo) DeleteCascade(ctx context.Context, username string) error {
	if m.deleteCascadeFn != nil {
		return m.deleteCascadeFn(ctx, username)
	}
	return nil
}

// memoryUserRepo backs the mock with an in-memory map so register/login
// roundtrips behave like the real store (including duplicate rejection).
func memoryUserRepo() (*mockUserRepo, map[string]*User) {
	store := make(map[string]*User)
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *User) error {
			if _, ok := store[user.Username]; ok {
				return apperror.NewConflict("username is already taken")
			}
			u := *user
			store[user.Username] = &u
			return nil
		},
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			u, ok := store[username]
			if !ok {
				return nil, apperror.NewNotFound("user not found")
			}
			return u, nil
		},
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			_, ok := store[username]
			return ok, nil
		},
		deleteCascadeFn: func(ctx context.Context, username string) error {
			if _, ok := store[username]; !ok {
				return apperror.NewNotFound("user not found")
			}
			delete(store, username)
			return nil
		},
	}
	return repo, store
}

// --- Test Helpers ---

// newTestService creates an authService with the given repo and a
// miniredis-backed session store.
func newTestService(t *testing.T, repo UserRepository) AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewAuthService(repo, NewSessionStore(client, time.Hour))
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func validInput() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Password:  "pw123secret",
		Email:     "a@x.com",
		FirstName: "Alice",
		LastName:  "Lee",
	}
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo, store := memoryUserRepo()
	service := newTestService(t, repo)

	user, err := service.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("expected username alice, got %q", user.Username)
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw123secret" {
		t.Error("expected password to be stored hashed, never plaintext")
	}
	if _, ok := store["alice"]; !ok {
		t.Error("expected user to be persisted")
	}
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	repo, _ := memoryUserRepo()
	service := newTestService(t, repo)

	if _, err := service.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, user, err := service.Login(context.Background(), LoginInput{
		Username: "alice",
		Password: "pw123secret",
	})
	if err != nil {
		t.Fatalf("Login after register: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}

	session, err := service.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if session.Username != user.Username {
		t.Errorf("session holds %q, want %q", session.Username, user.Username)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo, store := memoryUserRepo()
	service := newTestService(t, repo)

	first, err := service.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// Second registration with the same username but different details.
	second := validInput()
	second.Email = "other@x.com"
	second.FirstName = "Impostor"

	_, err = service.Register(context.Background(), second)
	assertAppError(t, err, http.StatusConflict)

	// The first user's record must be unchanged.
	stored := store["alice"]
	if stored.Email != first.Email || stored.FirstName != first.FirstName {
		t.Errorf("first registration was modified: %+v", stored)
	}
}

func TestRegister_DuplicateRaceMapsStoreConflict(t *testing.T) {
	// The pre-check misses a concurrent insert; the repository surfaces
	// the unique-key violation as Conflict and the service passes it up.
	repo := &mockUserRepo{
		usernameExistsFn: func(ctx context.Context, username string) (bool, error) {
			return false, nil
		},
		createFn: func(ctx context.Context, user *User) error {
			return apperror.NewConflict("username is already taken")
		},
	}
	service := newTestService(t, repo)

	_, err := service.Register(context.Background(), validInput())
	assertAppError(t, err, http.StatusConflict)
}

func TestRegister_Validation(t *testing.T) {
	repo, _ := memoryUserRepo()
	service := newTestService(t, repo)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"empty username", func(in *RegisterInput) { in.Username = "" }},
		{"long username", func(in *RegisterInput) { in.Username = "abcdefghijklmnopqrstu" }},
		{"username with slash", func(in *RegisterInput) { in.Username = "a/b" }},
		{"empty password", func(in *RegisterInput) { in.Password = "" }},
		{"empty email", func(in *RegisterInput) { in.Email = "" }},
		{"malformed email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"empty first name", func(in *RegisterInput) { in.FirstName = "" }},
		{"long last name", func(in *RegisterInput) { in.LastName = "0123456789012345678901234567890" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := service.Register(context.Background(), input)
			assertAppError(t, err, http.StatusUnprocessableEntity)
		})
	}
}

// --- Login Tests ---

func TestLogin_WrongPasswordAndUnknownUserIndistinguishable(t *testing.T) {
	repo, _ := memoryUserRepo()
	service := newTestService(t, repo)

	if _, err := service.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, errWrongPw := service.Login(context.Background(), LoginInput{
		Username: "alice", Password: "wrong",
	})
	_, _, errUnknown := service.Login(context.Background(), LoginInput{
		Username: "nobody", Password: "whatever",
	})

	assertAppError(t, errWrongPw, http.StatusUnauthorized)
	assertAppError(t, errUnknown, http.StatusUnauthorized)

	// The caller must not be able to tell which part was wrong.
	if apperror.SafeMessage(errWrongPw) != apperror.SafeMessage(errUnknown) {
		t.Errorf("login failures are distinguishable: %q vs %q",
			apperror.SafeMessage(errWrongPw), apperror.SafeMessage(errUnknown))
	}
}

// --- DeleteAccount Tests ---

func TestDeleteAccount_LoginFailsAfter(t *testing.T) {
	repo, store := memoryUserRepo()
	service := newTestService(t, repo)

	if _, err := service.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := service.DeleteAccount(context.Background(), "alice"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, ok := store["alice"]; ok {
		t.Error("expected user record to be gone")
	}

	// Even the correct credentials no longer match.
	_, _, err := service.Login(context.Background(), LoginInput{
		Username: "alice", Password: "pw123secret",
	})
	assertAppError(t, err, http.StatusUnauthorized)
}

func TestDeleteAccount_UnknownUser(t *testing.T) {
	repo, _ := memoryUserRepo()
	service := newTestService(t, repo)

	err := service.DeleteAccount(context.Background(), "nobody")
	assertAppError(t, err, http.StatusNotFound)
}

// --- Session Tests ---

func TestDestroySession_LogsOut(t *testing.T) {
	repo, _ := memoryUserRepo()
	service := newTestService(t, repo)

	if _, err := service.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := service.Login(context.Background(), LoginInput{
		Username: "alice", Password: "pw123secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := service.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("DestroySession: %v", err)
	}

	_, err = service.ValidateSession(context.Background(), token)
	assertAppError(t, err, http.StatusUnauthorized)
}
