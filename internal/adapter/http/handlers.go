package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/validation"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct{ checks map[string]Check }

func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

// Health answers 503 when any dependency check fails.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	code, status := http.StatusOK, "ok"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = "down"
			code, status = http.StatusServiceUnavailable, "degraded"
			continue
		}
		deps[name] = "up"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	return c.JSON(code, body)
}

type loanPath struct {
	LoanID string `param:"loan_id" validate:"required,hex32"`
}

// loanIDParam reads and checks the :loan_id path segment.
func loanIDParam(c echo.Context) (string, error) {
	p := loanPath{LoanID: c.Param("loan_id")}
	if err := c.Validate(&p); err != nil {
		return "", errs.Validation("invalid loan id", validation.ToFieldErrors(err)...)
	}
	return p.LoanID, nil
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return invalidBody(err)
	}
	return nil
}
