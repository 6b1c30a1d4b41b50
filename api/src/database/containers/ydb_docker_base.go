package containers

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	ydbImage        = "ydbplatform/local-ydb:latest"
	ydbGrpcPort     = "2136"
	ydbDatabase     = "/local"
	ydbReadyTimeout = 2 * time.Minute

	YdbEndpointEnvKey = "YDB_ENDPOINT"
	YdbDatabaseEnvKey = "YDB_DATABASE"
	YdbUseTLSEnvKey   = "YDB_USE_TLS"
	YdbTokenEnvKey    = "YDB_TOKEN"
)

// StartYdb returns properties for a YDB database. When YDB_ENDPOINT is set
// that instance is used as is; otherwise a local-ydb container is started for
// the lifetime of t.
func StartYdb(t *testing.T) database.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}

	if endpoint := utilities.EnvOr(YdbEndpointEnvKey, ""); endpoint != "" {
		useTLS, _ := strconv.ParseBool(utilities.EnvOr(YdbUseTLSEnvKey, "false"))
		return database.Config{
			Driver:  database.DriverYdb,
			DSN:     database.YdbDSN(endpoint, utilities.EnvOr(YdbDatabaseEnvKey, ydbDatabase), useTLS),
			Token:   utilities.EnvOr(YdbTokenEnvKey, ""),
			UseTLS:  useTLS,
			Migrate: true,
		}
	}

	skipWithoutDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        ydbImage,
			ExposedPorts: []string{ydbGrpcPort + "/tcp"},
			Hostname:     "localhost",
			Env: map[string]string{
				"GRPC_PORT":                ydbGrpcPort,
				"YDB_USE_IN_MEMORY_PDISKS": "true",
			},
			WaitingFor: wait.ForListeningPort(ydbGrpcPort + "/tcp").WithStartupTimeout(ydbReadyTimeout),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("Failed to start ydb container: %v", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to resolve ydb host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, ydbGrpcPort+"/tcp")
	if err != nil {
		t.Fatalf("Failed to resolve ydb port: %v", err)
	}

	cfg := database.Config{
		Driver:     database.DriverYdb,
		DSN:        database.YdbDSN(net.JoinHostPort(host, port.Port()), ydbDatabase, false),
		SingleConn: true,
		Migrate:    true,
	}
	waitForYdb(t, ctx, cfg)
	return cfg
}

// waitForYdb polls until the database answers a query; the gRPC port opens
// before the tenant is served.
func waitForYdb(t *testing.T, ctx context.Context, cfg database.Config) {
	t.Helper()

	pingCfg := cfg
	pingCfg.Migrate = false

	var lastErr error
	for ctx.Err() == nil {
		lastErr = pingYdb(ctx, pingCfg)
		if lastErr == nil {
			return
		}
		time.Sleep(time.Second)
	}
	t.Fatalf("YDB did not become ready: %v", lastErr)
}

func pingYdb(ctx context.Context, cfg database.Config) error {
	attemptCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ydb, err := database.OpenYdb(attemptCtx, cfg)
	if err != nil {
		return err
	}
	defer ydb.Close()

	var one int32
	return ydb.DB.QueryRowContext(attemptCtx, "SELECT 1").Scan(&one)
}
