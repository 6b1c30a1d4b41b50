package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConvertToDomain(t *testing.T) {
	off := false
	tests := []struct {
		name     string
		json     database.ConfigJson
		expected database.Config
	}{
		{
			name:     "migrate defaults to true",
			json:     database.ConfigJson{Driver: " Postgres ", DSN: "host=db"},
			expected: database.Config{Driver: database.DriverPostgres, DSN: "host=db", Migrate: true},
		},
		{
			name: "explicit values",
			json: database.ConfigJson{Driver: "ydb", DSN: "grpc://localhost:2136/local", Token: "t", SingleConn: true, MaxOpenConns: 3, Migrate: &off},
			expected: database.Config{
				Driver: database.DriverYdb, DSN: "grpc://localhost:2136/local", Token: "t",
				SingleConn: true, MaxOpenConns: 3, Migrate: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.json.ConvertToDomain())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, database.Config{Driver: database.DriverSqlite, DSN: "file::memory:"}.Validate())
	assert.Error(t, database.Config{Driver: "mysql", DSN: "x"}.Validate())
	assert.Error(t, database.Config{Driver: database.DriverYdb}.Validate())

	assert.True(t, database.Config{Driver: database.DriverPostgres}.Relational())
	assert.False(t, database.Config{Driver: database.DriverYdb}.Relational())
}

func TestYdbDSN(t *testing.T) {
	assert.Equal(t, "grpc://localhost:2136/local", database.YdbDSN("localhost:2136", "/local", false))
	assert.Equal(t, "grpcs://ydb.example:2135/ru/db", database.YdbDSN("ydb.example:2135", "ru/db", true))
}

func TestOpenGormRejectsYdb(t *testing.T) {
	_, err := database.OpenGorm(database.Config{Driver: database.DriverYdb, DSN: "grpc://x/local"})
	assert.Error(t, err)
}

func TestConstraintViolationPostgres(t *testing.T) {
	pk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"})
	other := &pgconn.PgError{Code: "23502", ConstraintName: "users_pkey"}

	assert.Equal(t, database.PrimaryKeyViolation, database.ConstraintViolation(pk))
	assert.Equal(t, database.UniqueViolation, database.ConstraintViolation(unique))
	assert.Equal(t, database.NoViolation, database.ConstraintViolation(other))
	assert.Equal(t, database.NoViolation, database.ConstraintViolation(errors.New("plain")))
	assert.Equal(t, database.NoViolation, database.ConstraintViolation(nil))
}

func TestConstraintViolationSqlite(t *testing.T) {
	db := database.OpenTestSqlite(t)

	first := model.NewUserWithID(1)
	first.Username = "ada"
	require.NoError(t, db.Create(first).Error)

	sameID := model.NewUserWithID(1)
	sameID.Username = "grace"
	err := db.Create(sameID).Error
	require.Error(t, err)
	assert.Equal(t, database.PrimaryKeyViolation, database.ConstraintViolation(err))

	sameName := model.NewUserWithID(2)
	sameName.Username = "ada"
	err = db.Create(sameName).Error
	require.Error(t, err)
	assert.Equal(t, database.UniqueViolation, database.ConstraintViolation(err))
}

func TestEmptyUsernamesDoNotCollide(t *testing.T) {
	db := database.OpenTestSqlite(t)

	require.NoError(t, db.Create(model.NewUserWithID(1)).Error)
	require.NoError(t, db.Create(model.NewUserWithID(2)).Error)
}

func TestViolationString(t *testing.T) {
	assert.Equal(t, "primary key violation", database.PrimaryKeyViolation.String())
	assert.Equal(t, "unique violation", database.UniqueViolation.String())
	assert.Equal(t, "no violation", database.NoViolation.String())
}
