package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"fastloan-backend/internal/adapter/middleware"
	"fastloan-backend/internal/usecase/payment"
)

// HeaderIdempotencyKey may carry the payment key instead of the body.
const HeaderIdempotencyKey = "Idempotency-Key"

type PaymentService interface {
	Record(ctx context.Context, userID, loanID string, in payment.RecordPaymentInput) (*payment.RecordResult, error)
	List(ctx context.Context, userID, loanID string) ([]payment.PaymentDTO, error)
	Summary(ctx context.Context, userID, loanID string) (*payment.SummaryDTO, error)
}

type PaymentHandler struct{ svc PaymentService }

func NewPaymentHandler(svc PaymentService) *PaymentHandler { return &PaymentHandler{svc: svc} }

// RecordPayment answers 201 for a new payment and 200 for a replayed key.
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return err
	}
	var req payment.RecordPaymentInput
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = paymentKey(c.Request().Header)
	}

	res, err := h.svc.Record(c.Request().Context(), middleware.UserID(c), loanID, req)
	if err != nil {
		return err
	}
	if res.Replayed {
		return c.JSON(http.StatusOK, res)
	}
	return c.JSON(http.StatusCreated, res)
}

func paymentKey(h http.Header) string {
	if k := strings.TrimSpace(h.Get(HeaderIdempotencyKey)); k != "" {
		return k
	}
	return strings.ToLower(strings.TrimSpace(h.Get(middleware.HeaderRequestID)))
}

// ListPayments serves both /payments (optional ?loan_id=) and /loans/:loan_id/payments.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	var loanID string
	if c.Param("loan_id") != "" {
		id, err := loanIDParam(c)
		if err != nil {
			return err
		}
		loanID = id
	} else {
		loanID = strings.TrimSpace(c.QueryParam("loan_id"))
	}

	list, err := h.svc.List(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []payment.PaymentDTO{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) Summary(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return err
	}
	dto, err := h.svc.Summary(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}
