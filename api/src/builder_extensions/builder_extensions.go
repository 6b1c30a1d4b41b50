package builderextensions

import (
	"context"
	"time"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/user"
	appbuilder "github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/app_builder"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/pkg/utilities"

	"gorm.io/gorm"
)

const (
	DatabaseDsnEnvKey = "DATABASE_DSN"
	YdbTokenEnvKey    = "YDB_TOKEN"

	connectTimeout = 30 * time.Second
)

type AppConfig interface {
	appbuilder.AppConfig
	GetDatabaseConfig() database.Config
}

// Stores holds whichever store the configured driver opened; the other is nil.
type Stores struct {
	Gorm *gorm.DB
	Ydb  *database.YdbDatabase
}

// ResolveDatabaseConfig applies environment overrides to the file config.
func ResolveDatabaseConfig(cfg database.Config) database.Config {
	cfg.DSN = utilities.EnvOr(DatabaseDsnEnvKey, cfg.DSN)
	cfg.Token = utilities.EnvOr(YdbTokenEnvKey, cfg.Token)
	return cfg
}

func ConnectToDatabase[T utilities.JsonConfigObj[U], U AppConfig](a *appbuilder.AppBuilder[T, U]) Stores {
	a.Logger.Info("Establishing connection to database...")
	cfg := ResolveDatabaseConfig(a.Config.GetDatabaseConfig())

	var stores Stores
	if cfg.Relational() {
		db, err := database.OpenGorm(cfg)
		if err != nil {
			a.Logger.Error(err, "Could not connect to database")
			panic(err)
		}
		a.AddCloser(database.GormCloser{DB: db})
		stores.Gorm = db
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		ydbDB, err := database.OpenYdb(ctx, cfg)
		if err != nil {
			a.Logger.Error(err, "Could not connect to YDB")
			panic(err)
		}
		a.AddCloser(ydbDB)
		stores.Ydb = ydbDB
	}

	a.Logger.Infof("Database connection established successfully (%s).", cfg.Driver)
	return stores
}

func NewUserRepository(stores Stores, opts ...user.RepositoryOption) user.Repository {
	if stores.Gorm != nil {
		return user.NewGormRepository(stores.Gorm, opts...)
	}
	return user.NewYdbRepository(stores.Ydb.DB, opts...)
}
