package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenTestSqlite returns a migrated, private in-memory database closed at test end.
func OpenTestSqlite(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := Config{
		Driver:       DriverSqlite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		Migrate:      true,
	}
	db, err := OpenGorm(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if err := (GormCloser{DB: db}).Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}
