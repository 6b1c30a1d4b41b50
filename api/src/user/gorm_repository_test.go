package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database/containers"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/outbox"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSqliteRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T, opts ...user.RepositoryOption) user.Repository {
		return user.NewGormRepository(database.OpenTestSqlite(t), opts...)
	})
}

func TestPostgresRepository(t *testing.T) {
	pg := containers.StartPostgres(t)

	db, err := database.OpenGorm(pg.Config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.GormCloser{DB: db}.Close() })

	runRepositoryContract(t, func(t *testing.T, opts ...user.RepositoryOption) user.Repository {
		require.NoError(t, db.Exec("DELETE FROM users").Error)
		return user.NewGormRepository(db, opts...)
	})
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	return n
}

func TestSaveWritesRegistrationEvent(t *testing.T) {
	db := database.OpenTestSqlite(t)
	events := outbox.NewRepo(db)
	repo := user.NewGormRepository(db,
		user.WithGenerator(fixedGenerator(77)),
		user.WithInsertHook(outbox.RecordRegistration(events)))

	_, err := repo.Save(context.Background(), newUser("dave", "Dave", "Matthews"))
	require.NoError(t, err)

	pending, err := events.GetUnprocessedEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.EqualValues(t, 77, pending[0].UserId)
	assert.EqualValues(t, 1, countUsers(t, db))
}

func TestSaveRollsBackWhenRegistrationEventFails(t *testing.T) {
	t.Run("outbox table missing", func(t *testing.T) {
		db := database.OpenTestSqlite(t)
		repo := user.NewGormRepository(db,
			user.WithInsertHook(outbox.RecordRegistration(outbox.NewRepo(db))))
		require.NoError(t, db.Migrator().DropTable(&model.OutboxEvent{}))

		_, err := repo.Save(context.Background(), newUser("dave", "Dave", "Matthews"))
		require.Error(t, err)
		assert.Zero(t, countUsers(t, db))
	})

	t.Run("hook error is returned", func(t *testing.T) {
		db := database.OpenTestSqlite(t)
		failure := errors.New("event store unavailable")
		repo := user.NewGormRepository(db, user.WithInsertHook(
			func(context.Context, *gorm.DB, *model.User) error { return failure }))

		_, err := repo.Save(context.Background(), newUser("dave", "Dave", "Matthews"))
		assert.ErrorIs(t, err, failure)
		assert.Zero(t, countUsers(t, db))
	})

	t.Run("registration through the service", func(t *testing.T) {
		db := database.OpenTestSqlite(t)
		repo := user.NewGormRepository(db,
			user.WithInsertHook(outbox.RecordRegistration(outbox.NewRepo(db))))
		require.NoError(t, db.Migrator().DropTable(&model.OutboxEvent{}))

		svc := user.NewService(repo, nil, user.WithRegisterRetries(0))
		_, err := svc.Register(context.Background(), user.RegisterUserRequest{Username: "dave", Lastname: "Matthews"})
		require.Error(t, err)
		assert.Zero(t, countUsers(t, db))
	})
}
