package containers

import (
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

const startupTimeout = 3 * time.Minute

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}
