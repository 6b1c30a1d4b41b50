package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"

	"github.com/ydb-platform/ydb-go-sdk/v3"
	"github.com/ydb-platform/ydb-go-sdk/v3/balancers"
)

const ydbDialTimeout = 10 * time.Second

// YdbDatabase pairs the database/sql handle with the native driver behind it.
type YdbDatabase struct {
	DB     *sql.DB
	driver *ydb.Driver
}

func OpenYdb(ctx context.Context, cfg Config) (*YdbDatabase, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Driver != DriverYdb {
		return nil, fmt.Errorf("driver %s is not ydb", cfg.Driver)
	}

	opts := []ydb.Option{ydb.WithDialTimeout(ydbDialTimeout)}
	if cfg.Token != "" {
		opts = append(opts, ydb.WithAccessTokenCredentials(cfg.Token))
	}
	if cfg.SingleConn {
		// discovery would hand back the container's internal address
		opts = append(opts, ydb.WithBalancer(balancers.SingleConn()))
	}

	nativeDriver, err := ydb.Open(ctx, cfg.DSN, opts...)
	if err != nil {
		return nil, fmt.Errorf("open ydb: %w", err)
	}

	// queries reference $params without DECLARE; types come from the Go arguments
	connector, err := ydb.Connector(nativeDriver, ydb.WithAutoDeclare())
	if err != nil {
		_ = nativeDriver.Close(ctx)
		return nil, fmt.Errorf("ydb connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	ydbDB := &YdbDatabase{DB: db, driver: nativeDriver}
	if cfg.Migrate {
		if err := MigrateYdb(ctx, db); err != nil {
			_ = ydbDB.Close()
			return nil, err
		}
	}
	return ydbDB, nil
}

func (y *YdbDatabase) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ydbDialTimeout)
	defer cancel()
	return errors.Join(y.DB.Close(), y.driver.Close(ctx))
}

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id Int64 NOT NULL,
	username Text,
	firstname Text,
	lastname Text,
	PRIMARY KEY (id),
	INDEX idx_users_username GLOBAL UNIQUE SYNC ON (username)
)`

func MigrateYdb(ctx context.Context, db *sql.DB) error {
	migrationLogger := logger.DefaultOr(logger.New)
	migrationLogger.Info("Running YDB migrations... ")

	if _, err := db.ExecContext(ydb.WithQueryMode(ctx, ydb.SchemeQueryMode), createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	migrationLogger.Info("YDB tables created (or already exist).")
	return nil
}
