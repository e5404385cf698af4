package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/infrastructure/logger"
)

type authFunc func(ctx context.Context, token string) (string, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (string, error) { return f(ctx, token) }

func tokenAuth(valid map[string]string) Authenticator {
	return authFunc(func(_ context.Context, token string) (string, error) {
		if id, ok := valid[token]; ok {
			return id, nil
		}
		return "", errs.NotAuthenticated("invalid session token")
	})
}

func runAuth(t *testing.T, mw echo.MiddlewareFunc, header, value string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func TestRequireAuth(t *testing.T) {
	mw := RequireAuth(tokenAuth(map[string]string{"good": "user-1"}))

	tests := []struct {
		name  string
		value string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic good"},
		{"no token", "Bearer"},
		{"unknown token", "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := echo.HeaderAuthorization
			if tt.value == "" {
				header = ""
			}
			_, called, err := runAuth(t, mw, header, tt.value)
			if !errors.Is(err, errs.ErrNotAuthenticated) {
				t.Fatalf("want ErrNotAuthenticated, got %v", err)
			}
			if called {
				t.Fatal("next must not run")
			}
		})
	}

	t.Run("valid bearer", func(t *testing.T) {
		c, called, err := runAuth(t, mw, echo.HeaderAuthorization, "bearer good")
		if err != nil || !called {
			t.Fatalf("err=%v called=%v", err, called)
		}
		if got := UserID(c); got != "user-1" {
			t.Fatalf("UserID = %q", got)
		}
		if logger.FromContext(c.Request().Context(), nil) == nil {
			t.Fatal("expected a request-scoped logger")
		}
	})
}

func TestRequireAuth_PropagatesStoreFailure(t *testing.T) {
	boom := errs.Persistence("load session", errors.New("redis down"))
	mw := RequireAuth(authFunc(func(context.Context, string) (string, error) { return "", boom }))
	_, _, err := runAuth(t, mw, echo.HeaderAuthorization, "Bearer x")
	if !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
}

func TestAdminKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		sent   string
		wantOK bool
	}{
		{"match", "s3cret", "s3cret", true},
		{"mismatch", "s3cret", "other", false},
		{"missing", "s3cret", "", false},
		{"unset key rejects everything", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, called, err := runAuth(t, AdminKey(tt.key), HeaderAdminKey, tt.sent)
			if tt.wantOK {
				if err != nil || !called {
					t.Fatalf("err=%v called=%v", err, called)
				}
				return
			}
			if !errors.Is(err, errs.ErrNotAuthenticated) || called {
				t.Fatalf("err=%v called=%v", err, called)
			}
		})
	}
}
