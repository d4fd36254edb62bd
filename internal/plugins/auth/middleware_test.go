package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jotspace/jot/internal/apperror"
)

// stubAuthService lets middleware tests control ValidateSession directly.
// The remaining AuthService methods are never reached from RequireAuth.
type stubAuthService struct {
	validateFn func(ctx context.Context, token string) (*Session, error)
}

func (s *stubAuthService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(ctx context.Context, input LoginInput) (string, *User, error) {
	return "", nil, errors.New("not implemented")
}

func (s *stubAuthService) StartSession(ctx context.Context, username string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAuthService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	return s.validateFn(ctx, token)
}

func (s *stubAuthService) DestroySession(ctx context.Context, token string) error {
	return errors.New("not implemented")
}

func (s *stubAuthService) DeleteAccount(ctx context.Context, username string) error {
	return errors.New("not implemented")
}

func (s *stubAuthService) GetUser(ctx context.Context, username string) (*User, error) {
	return nil, errors.New("not implemented")
}

// runRequireAuth sends a request carrying a session cookie through the
// middleware and returns the recorder and the handler error.
func runRequireAuth(t *testing.T, service AuthService) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/alice", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sometoken"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := RequireAuth(service)(next)(c)
	return rec, err
}

// clearedSessionCookie reports whether the response expires the session
// cookie (MaxAge < 0).
func clearedSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestRequireAuth_InvalidSessionClearsCookieAndRedirects(t *testing.T) {
	service := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (*Session, error) {
			return nil, apperror.NewUnauthorized("session expired or invalid")
		},
	}

	rec, err := runRequireAuth(t, service)
	if err != nil {
		t.Fatalf("expected a redirect, got error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303 redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
	if !clearedSessionCookie(rec) {
		t.Error("expected the stale session cookie to be cleared")
	}
}

func TestRequireAuth_StoreOutageKeepsCookie(t *testing.T) {
	// A Redis outage is not a logout. The error must propagate as a 500
	// and the cookie must survive so the session works once the store
	// recovers.
	service := &stubAuthService{
		validateFn: func(ctx context.Context, token string) (*Session, error) {
			return nil, apperror.NewInternal(fmt.Errorf("reading session from redis: connection refused"))
		},
	}

	rec, err := runRequireAuth(t, service)
	if err == nil {
		t.Fatal("expected the infrastructure error to propagate")
	}
	assertAppError(t, err, http.StatusInternalServerError)

	if rec.Code == http.StatusSeeOther {
		t.Error("expected no redirect during a session store outage")
	}
	if clearedSessionCookie(rec) {
		t.Error("expected the session cookie to survive a store outage")
	}
}
