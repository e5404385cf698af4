package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"fastloan-backend/internal/domain/errs"
)

func TestErrorHandler_MapsKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", errs.Validation("invalid loan request", errs.FieldError{Field: "amount", Message: "must be greater than 0"}), 422, "invalid loan request"},
		{"invalid transition", errs.InvalidTransition("pending", "completed"), 409, "cannot move loan from pending to completed"},
		{"not payable", errs.LoanNotPayable("pending"), 409, "loan in status pending does not accept payments"},
		{"conflict", errs.Conflict("email already registered"), 409, "email already registered"},
		{"not authenticated", errs.NotAuthenticated("invalid session token"), 401, "invalid session token"},
		{"not found", errs.NotFound("loan"), 404, "loan not found"},
		{"persistence hides cause", errs.Persistence("load loan", errors.New("dial tcp 10.0.0.1:3306")), 503, "service temporarily unavailable"},
		{"unknown", errors.New("boom"), 500, "internal error"},
		{"echo http error", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), 405, "method not allowed"},
		{"echo not found", echo.ErrNotFound, 404, "Not Found"},
	}
	h := ErrorHandler(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("error = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func TestErrorHandler_CarriesFieldDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/loans", nil), rec)

	ErrorHandler(nil)(errs.Validation("invalid loan request",
		errs.FieldError{Field: "guarantors[0].phone_number", Message: "must be a valid phone number"}), c)

	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Details) != 1 || body.Details[0].Field != "guarantors[0].phone_number" {
		t.Fatalf("details = %+v", body.Details)
	}
}

func TestErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	ErrorHandler(nil)(errs.NotFound("loan"), c)

	if rec.Code != http.StatusAccepted || rec.Body.Len() != 0 {
		t.Fatalf("committed response was rewritten: %d %q", rec.Code, rec.Body.String())
	}
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	ErrorHandler(nil)(errs.NotFound("loan"), c)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("HEAD => %d %q", rec.Code, rec.Body.String())
	}
}
