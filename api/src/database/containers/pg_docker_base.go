package containers

import (
	"context"
	"testing"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:latest"
	postgresDatabase = "testdb"
	postgresUser     = "test"
	postgresPassword = "test"
)

// Postgres holds the properties registered for a running postgres container.
type Postgres struct {
	Config   database.Config
	Username string
	Password string
	Database string
}

// StartPostgres runs a postgres container for the lifetime of t.
func StartPostgres(t *testing.T) Postgres {
	t.Helper()
	skipWithoutDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to read postgres connection string: %v", err)
	}

	return Postgres{
		Config: database.Config{
			Driver:  database.DriverPostgres,
			DSN:     dsn,
			Migrate: true,
		},
		Username: postgresUser,
		Password: postgresPassword,
		Database: postgresDatabase,
	}
}
