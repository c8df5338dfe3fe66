package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cointrail/tracker-api/internal/core/domain"
	"github.com/cointrail/tracker-api/internal/core/ports"
)

type stubVerifier struct {
	subject string
}

func (v *stubVerifier) Verify(token string) (bool, string, error) {
	if token == "good-token" {
		return true, v.subject, nil
	}
	return false, "", domain.ErrInvalidToken
}

type stubIdentity struct {
	usernames map[string]string
}

func (s *stubIdentity) Register(context.Context, string, string, string) (*ports.RegistrationResult, error) {
	panic("not used")
}

func (s *stubIdentity) Login(context.Context, string, string) (*ports.LoginResult, error) {
	panic("not used")
}

func (s *stubIdentity) IsTokenValid(string) bool { return true }

func (s *stubIdentity) UsernameForID(_ context.Context, id string) (string, error) {
	if name, ok := s.usernames[id]; ok {
		return name, nil
	}
	return "", domain.ErrUserNotFound
}

func newTestMiddleware() echo.MiddlewareFunc {
	return Auth(
		&stubVerifier{subject: "u1"},
		&stubIdentity{usernames: map[string]string{"u1": "alice"}},
	)
}

func TestAuthMiddleware_TokenInBody(t *testing.T) {
	e := echo.New()
	body := `{"token":"good-token","transactionType":"BUY"}`
	req := httptest.NewRequest(http.MethodPost, "/track-transaction", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := newTestMiddleware()(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "u1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}

		// The body must be restored so the handler can still bind it.
		var payload struct {
			TransactionType string `json:"transactionType"`
		}
		if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
			t.Fatalf("body not restored: %v", err)
		}
		if payload.TransactionType != "BUY" {
			t.Fatalf("unexpected payload after restore: %+v", payload)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_TokenInQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/all-transactions?token=good-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := newTestMiddleware()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/all-transactions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := newTestMiddleware()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/all-transactions?token=bad-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := newTestMiddleware()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/all-transactions?token=good-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(&stubVerifier{subject: "deleted-user"}, &stubIdentity{usernames: map[string]string{}})
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
