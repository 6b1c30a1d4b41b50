package builderextensions_test

import (
	"context"
	"fmt"
	"testing"

	builderextensions "github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/builder_extensions"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	appbuilder "github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/app_builder"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/logger"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/rabbitmq"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfigJson struct{}

type testConfig struct {
	db database.Config
}

func (testConfigJson) ConvertToDomain() testConfig { return testConfig{} }

func (testConfig) GetLoggerConfig() logger.LoggerConfig       { return logger.LoggerConfig{} }
func (testConfig) GetRabbitmqConfig() rabbitmq.RabbitmqConfig { return rabbitmq.RabbitmqConfig{} }
func (testConfig) GetRestApiPort() uint16                     { return 0 }
func (c testConfig) GetDatabaseConfig() database.Config       { return c.db }

func TestResolveDatabaseConfig(t *testing.T) {
	cfg := database.Config{Driver: database.DriverYdb, DSN: "grpc://file:2136/local", Token: "file"}

	t.Setenv(builderextensions.DatabaseDsnEnvKey, "")
	t.Setenv(builderextensions.YdbTokenEnvKey, "")
	assert.Equal(t, cfg, builderextensions.ResolveDatabaseConfig(cfg))

	t.Setenv(builderextensions.DatabaseDsnEnvKey, "grpc://env:2136/local")
	t.Setenv(builderextensions.YdbTokenEnvKey, "env")
	resolved := builderextensions.ResolveDatabaseConfig(cfg)
	assert.Equal(t, "grpc://env:2136/local", resolved.DSN)
	assert.Equal(t, "env", resolved.Token)
}

func TestConnectToDatabaseSqlite(t *testing.T) {
	t.Setenv(builderextensions.DatabaseDsnEnvKey, "")
	a := &appbuilder.AppBuilder[testConfigJson, testConfig]{
		Logger: logger.New(),
		Config: testConfig{db: database.Config{
			Driver:       database.DriverSqlite,
			DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
			MaxOpenConns: 1,
			Migrate:      true,
		}},
	}

	stores := builderextensions.ConnectToDatabase(a)
	require.NotNil(t, stores.Gorm)
	assert.Nil(t, stores.Ydb)
	t.Cleanup(func() { _ = database.GormCloser{DB: stores.Gorm}.Close() })

	repo := builderextensions.NewUserRepository(stores)
	u := model.NewUnsaved("Dave", "Matthews")
	_, err := repo.Save(context.Background(), u)
	require.NoError(t, err)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestConnectToDatabasePanicsOnBadConfig(t *testing.T) {
	t.Setenv(builderextensions.DatabaseDsnEnvKey, "")
	a := &appbuilder.AppBuilder[testConfigJson, testConfig]{
		Logger: logger.New(),
		Config: testConfig{db: database.Config{Driver: "mysql", DSN: "x"}},
	}
	assert.Panics(t, func() { builderextensions.ConnectToDatabase(a) })
}
