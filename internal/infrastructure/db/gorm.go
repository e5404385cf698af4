package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fastloan-backend/internal/config"
	"fastloan-backend/internal/domain/loan"
	"fastloan-backend/internal/domain/payment"
	"fastloan-backend/internal/domain/user"
)

// Dialector picks the gorm driver for cfg.DBDriver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return mysql.Open(cfg.MySQLDSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.PostgresDSN()), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
}

func OpenGorm(cfg *config.Config, lg *zap.Logger) (*gorm.DB, error) {
	dial, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	level := logger.Warn
	if cfg.AppEnv != "production" {
		level = logger.Info
	}
	gdb, err := openWith(dial, level)
	if err != nil {
		return nil, err
	}
	if lg != nil {
		lg.Info("gorm: connected", zap.String("driver", cfg.DBDriver))
	}
	return gdb, nil
}

// OpenGormWithDialector opens and pings using an already configured dialector.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	return openWith(dial, logger.Silent)
}

// Config is the gorm configuration shared by every dialect. TranslateError turns
// unique-index violations into gorm.ErrDuplicatedKey.
func Config(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

func openWith(dial gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	gdb, err := gorm.Open(dial, Config(level))
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate creates or updates the users/loans/guarantors/account_details/payments tables.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&user.User{},
		&loan.Loan{},
		&loan.Guarantor{},
		&loan.AccountDetails{},
		&payment.Payment{},
	)
}
