package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/infrastructure/logger"
)

// Reusable error payload
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details []errs.FieldError `json:"details,omitempty"`
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrLoanNotPayable),
		errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrPersistence):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func toResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, ErrorResponse{Error: msg}
	}

	code := statusOf(err)
	switch code {
	case http.StatusInternalServerError:
		return code, ErrorResponse{Error: "internal error"}
	case http.StatusServiceUnavailable:
		// Storage details stay in the log.
		return code, ErrorResponse{Error: "service temporarily unavailable"}
	}
	var de *errs.Error
	if errors.As(err, &de) && de.Message != "" {
		return code, ErrorResponse{Error: de.Message, Details: de.Fields}
	}
	return code, ErrorResponse{Error: err.Error()}
}

// ErrorHandler renders domain errors as ErrorResponse. Responses that were
// already written are left alone, since several middlewares report the same error.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, body := toResponse(err)
		if code >= http.StatusInternalServerError {
			logger.FromContext(c.Request().Context(), log).Error("request error",
				zap.Int("status", code), zap.Error(err))
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			logger.FromContext(c.Request().Context(), log).Warn("write error response", zap.Error(werr))
		}
	}
}

// invalidBody wraps a bind failure.
func invalidBody(err error) error {
	var he *echo.HTTPError
	msg := "invalid body"
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok && s != "" {
			msg = "invalid body: " + s
		}
	}
	return errs.Validation(msg)
}
