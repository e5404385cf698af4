package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/infrastructure/logger"
)

const (
	userIDKey      = "user_id"
	HeaderAdminKey = "X-Admin-Key"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// UserID returns the id RequireAuth stored on c, or "".
func UserID(c echo.Context) string {
	v, _ := c.Get(userIDKey).(string)
	return v
}

// RequireAuth resolves "Authorization: Bearer <token>" to a user id.
// Failures are returned as errs.ErrNotAuthenticated for the error handler to render.
func RequireAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return errs.NotAuthenticated("missing authorization header")
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				return errs.NotAuthenticated("invalid authorization format: expected 'Bearer <token>'")
			}

			ctx := c.Request().Context()
			userID, err := a.Authenticate(ctx, strings.TrimSpace(token))
			if err != nil {
				return err
			}
			c.Set(userIDKey, userID)

			lg := logger.FromContext(ctx, nil).With(zap.String("user_id", userID))
			c.SetRequest(c.Request().WithContext(logger.WithContext(ctx, lg)))
			return next(c)
		}
	}
}

// AdminKey guards back-office routes with a shared secret in X-Admin-Key.
func AdminKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(HeaderAdminKey)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return errs.NotAuthenticated("invalid admin key")
			}
			return next(c)
		}
	}
}
