package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"fastloan-backend/internal/adapter/middleware"
	"fastloan-backend/internal/usecase/loan"
)

type LoanService interface {
	Create(ctx context.Context, userID string, in loan.CreateLoanInput) (*loan.LoanDTO, error)
	List(ctx context.Context, userID string) ([]loan.LoanDTO, error)
	Get(ctx context.Context, userID, loanID string) (*loan.LoanDTO, error)
	Transition(ctx context.Context, loanID string, in loan.TransitionInput) (*loan.LoanDTO, error)
}

type LoanHandler struct{ svc LoanService }

func NewLoanHandler(svc LoanService) *LoanHandler { return &LoanHandler{svc: svc} }

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loan.CreateLoanInput
	if err := bind(c, &req); err != nil {
		return err
	}
	dto, err := h.svc.Create(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	if list == nil {
		list = []loan.LoanDTO{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return err
	}
	dto, err := h.svc.Get(c.Request().Context(), middleware.UserID(c), loanID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

// Transition is the back-office status change; mounted behind AdminKey.
func (h *LoanHandler) Transition(c echo.Context) error {
	loanID, err := loanIDParam(c)
	if err != nil {
		return err
	}
	var req loan.TransitionInput
	if err := bind(c, &req); err != nil {
		return err
	}
	dto, err := h.svc.Transition(c.Request().Context(), loanID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}
