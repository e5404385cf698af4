package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"fastloan-backend/internal/adapter/middleware"
	"fastloan-backend/internal/usecase/account"
)

type AccountService interface {
	Register(ctx context.Context, in account.RegisterInput) (*account.SessionDTO, error)
	Login(ctx context.Context, in account.LoginInput) (*account.SessionDTO, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Profile(ctx context.Context, userID string) (*account.UserDTO, error)
	UpdateProfile(ctx context.Context, userID string, in account.UpdateProfileInput) (*account.UserDTO, error)
}

type AccountHandler struct{ svc AccountService }

func NewAccountHandler(svc AccountService) *AccountHandler { return &AccountHandler{svc: svc} }

func (h *AccountHandler) Register(c echo.Context) error {
	var req account.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}
	dto, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req account.LoginInput
	if err := bind(c, &req); err != nil {
		return err
	}
	dto, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) Me(c echo.Context) error {
	dto, err := h.svc.Profile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) UpdateMe(c echo.Context) error {
	var req account.UpdateProfileInput
	if err := bind(c, &req); err != nil {
		return err
	}
	dto, err := h.svc.UpdateProfile(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto)
}
