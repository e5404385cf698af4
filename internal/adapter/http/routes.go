package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fastloan-backend/internal/adapter/middleware"
	"fastloan-backend/internal/validation"
)

// ServerDeps is everything NewServer wires into routes.
type ServerDeps struct {
	Accounts AccountService
	Loans    LoanService
	Payments PaymentService

	Logger    *zap.Logger
	Validator *validation.Validator
	Metrics   *middleware.HTTPMetrics
	Gatherer  prometheus.Gatherer

	// Health dependencies by name, e.g. "database" and "redis".
	Checks map[string]Check

	Redis          *redis.Client
	IdempotencyTTL time.Duration
	// Empty AdminAPIKey leaves the transitions route unmounted.
	AdminAPIKey string
}

// NewServer builds the echo instance with middleware and routes.
// Middleware order: request id, metrics, access log, context logger, recover.
func NewServer(d ServerDeps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = d.Validator
	e.HTTPErrorHandler = ErrorHandler(d.Logger)

	e.Use(
		echomw.RequestID(),
		d.Metrics.Handler(),
		middleware.AccessLog(d.Logger),
		middleware.ContextLogger(d.Logger),
		echomw.Recover(),
	)

	h := NewHandler(d.Checks)
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	idem := middleware.Idempotency(d.Redis, d.IdempotencyTTL)
	authed := middleware.RequireAuth(d.Accounts)

	acc := NewAccountHandler(d.Accounts)
	e.POST("/auth/register", acc.Register, idem)
	e.POST("/auth/login", acc.Login)
	e.GET("/me", acc.Me, authed)
	e.PATCH("/me", acc.UpdateMe, authed, idem)

	lh := NewLoanHandler(d.Loans)
	e.POST("/loans", lh.CreateLoan, authed, idem)
	e.GET("/loans", lh.ListLoans, authed)
	e.GET("/loans/:loan_id", lh.GetLoan, authed)
	if d.AdminAPIKey != "" {
		e.POST("/loans/:loan_id/transitions", lh.Transition, middleware.AdminKey(d.AdminAPIKey), idem)
	}

	ph := NewPaymentHandler(d.Payments)
	e.POST("/loans/:loan_id/payments", ph.RecordPayment, authed, idem)
	e.GET("/loans/:loan_id/payments", ph.ListPayments, authed)
	e.GET("/loans/:loan_id/summary", ph.Summary, authed)
	e.GET("/payments", ph.ListPayments, authed)

	return e
}
