package database

import (
	"fmt"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultMaxOpenConns = 10
	connMaxLifetime     = 30 * time.Minute
)

// OpenGorm connects to a relational store and, when cfg.Migrate is set,
// brings the schema up to date.
func OpenGorm(cfg Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSqlite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %s is not served by gorm", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if cfg.Migrate {
		if err := AutoMigrate(db); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	migrationLogger := logger.DefaultOr(logger.New)
	migrationLogger.Info("Running migrations for tables... ")

	if err := db.AutoMigrate(&model.User{}, &model.OutboxEvent{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	migrationLogger.Info("All tables created (or already exist).")
	return nil
}

// GormCloser adapts a gorm handle to io.Closer.
type GormCloser struct {
	DB *gorm.DB
}

func (c GormCloser) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
