package user_test

import (
	"context"
	"testing"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database/containers"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/user"
	"github.com/stretchr/testify/require"
)

func TestYdbRepository(t *testing.T) {
	ctx := context.Background()
	cfg := containers.StartYdb(t)

	ydbDB, err := database.OpenYdb(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ydbDB.Close() })

	runRepositoryContract(t, func(t *testing.T, opts ...user.RepositoryOption) user.Repository {
		_, err := ydbDB.DB.ExecContext(ctx, "DELETE FROM users")
		require.NoError(t, err)
		return user.NewYdbRepository(ydbDB.DB, opts...)
	})
}
