package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httpadp "fastloan-backend/internal/adapter/http"
	"fastloan-backend/internal/adapter/middleware"
	"fastloan-backend/internal/adapter/repository/sqlstore"
	"fastloan-backend/internal/config"
	"fastloan-backend/internal/domain/event"
	"fastloan-backend/internal/infrastructure/cache"
	"fastloan-backend/internal/infrastructure/db"
	"fastloan-backend/internal/infrastructure/kafka"
	"fastloan-backend/internal/infrastructure/logger"
	"fastloan-backend/internal/infrastructure/metrics"
	"fastloan-backend/internal/infrastructure/security"
	"fastloan-backend/internal/usecase/account"
	"fastloan-backend/internal/usecase/loan"
	"fastloan-backend/internal/usecase/payment"
	"fastloan-backend/internal/validation"
)

const serviceName = "fastloan-backend"

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	gdb, err := db.OpenGorm(cfg, lg)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		lg.Info("schema migrated", zap.String("driver", cfg.DBDriver))
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	pub, closePub, err := newPublisher(cfg, lg)
	if err != nil {
		return err
	}
	defer closePub()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	domainMetrics, err := metrics.NewDomain(reg)
	if err != nil {
		return err
	}
	httpMetrics, err := middleware.NewHTTPMetrics(reg)
	if err != nil {
		return err
	}

	tokens, err := security.NewSessionTokens(cfg.JWTSecret, cfg.SessionTTL())
	if err != nil {
		return err
	}
	v := validation.New()
	tx := sqlstore.NewGormUoW(gdb)
	loans := sqlstore.NewLoanRepository(gdb)
	payments := sqlstore.NewPaymentRepository(gdb)

	accountUC := account.NewUsecase(sqlstore.NewUserRepository(gdb), security.NewBcryptHasher(cfg.BcryptCost), tokens, v, lg)
	loanUC := loan.NewUsecase(tx, loans, payments, v,
		loan.WithPublisher(pub), loan.WithLogger(lg), loan.WithMetrics(domainMetrics))
	paymentUC := payment.NewUsecase(tx, loans, payments, loanUC, v,
		payment.WithPublisher(pub), payment.WithLogger(lg), payment.WithMetrics(domainMetrics))

	if cfg.AdminAPIKey == "" {
		lg.Warn("ADMIN_API_KEY not set; loan transitions route disabled")
	}
	e := httpadp.NewServer(httpadp.ServerDeps{
		Accounts:  accountUC,
		Loans:     loanUC,
		Payments:  paymentUC,
		Logger:    lg,
		Validator: v,
		Metrics:   httpMetrics,
		Gatherer:  reg,
		Checks: map[string]httpadp.Check{
			"database": sqlDB.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		AdminAPIKey:    cfg.AdminAPIKey,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newPublisher returns the kafka publisher when brokers are configured, else a log-only stub.
func newPublisher(cfg *config.Config, lg *zap.Logger) (event.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		lg.Info("KAFKA_BROKERS not set; domain events are only logged")
		return kafka.NewStubPublisher(lg), func() {}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, lg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			lg.Warn("close kafka producer", zap.Error(err))
		}
	}
	return kafka.NewEventPublisher(producer, serviceName), closeFn, nil
}

