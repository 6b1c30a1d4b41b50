package database

import (
	"fmt"
	"strings"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSqlite   Driver = "sqlite"
	DriverYdb      Driver = "ydb"
)

type ConfigJson struct {
	Driver       string `json:"driver"`
	DSN          string `json:"dsn"`
	Token        string `json:"token"`
	UseTLS       bool   `json:"use_tls"`
	SingleConn   bool   `json:"single_conn"`
	MaxOpenConns int    `json:"max_open_conns"`
	Migrate      *bool  `json:"migrate"`
}

// Config is the set of connection properties a store needs. Test bases
// produce it at runtime from the containers they start.
type Config struct {
	Driver       Driver
	DSN          string
	Token        string
	UseTLS       bool
	SingleConn   bool
	MaxOpenConns int
	Migrate      bool
}

func (cj ConfigJson) ConvertToDomain() Config {
	migrate := true
	if cj.Migrate != nil {
		migrate = *cj.Migrate
	}
	return Config{
		Driver:       Driver(strings.ToLower(strings.TrimSpace(cj.Driver))),
		DSN:          cj.DSN,
		Token:        cj.Token,
		UseTLS:       cj.UseTLS,
		SingleConn:   cj.SingleConn,
		MaxOpenConns: cj.MaxOpenConns,
		Migrate:      migrate,
	}
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSqlite, DriverYdb:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("database dsn is required for driver %s", c.Driver)
	}
	return nil
}

// Relational reports whether the store is reached through gorm.
func (c Config) Relational() bool {
	return c.Driver == DriverPostgres || c.Driver == DriverSqlite
}

// YdbDSN renders grpc[s]://<endpoint><database>. The token travels as
// credentials, not in the connection string.
func YdbDSN(endpoint, database string, useTLS bool) string {
	scheme := "grpc://"
	if useTLS {
		scheme = "grpcs://"
	}
	if !strings.HasPrefix(database, "/") {
		database = "/" + database
	}
	return scheme + endpoint + database
}
