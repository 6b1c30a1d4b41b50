package user

import (
	"context"
	"fmt"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/entity"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"

	"gorm.io/gorm"
)

// Repository persists users. Save inserts records without identity (after
// generating one) and merges records that have one.
type Repository interface {
	Save(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, u *model.User) error

	FindByTheUsersName(ctx context.Context, username string) (*model.User, error)
	FindByLastname(ctx context.Context, lastname string) ([]model.User, error)
	FindByFirstname(ctx context.Context, firstname string) ([]model.User, error)
	FindByFirstnameOrLastname(ctx context.Context, name string) ([]model.User, error)
	FindFirst2ByOrderByLastnameAsc(ctx context.Context) ([]model.User, error)
	RemoveByLastname(ctx context.Context, lastname string) (int64, error)

	// GetReference returns an unloaded stand-in; no I/O happens until Load.
	GetReference(id int64) *LazyUser
}

// InsertHook runs inside the transaction that inserts a new user; an error
// rolls the insert back.
type InsertHook func(ctx context.Context, tx *gorm.DB, u *model.User) error

type repositoryOptions struct {
	generator  entity.Generator
	insertHook InsertHook
}

type RepositoryOption func(*repositoryOptions)

// WithGenerator replaces the identity generator used for new records.
func WithGenerator(g entity.Generator) RepositoryOption {
	return func(o *repositoryOptions) {
		o.generator = g
	}
}

// WithInsertHook attaches writes that must commit together with a new user.
// Only the gorm repository supports it; YDB reports registrations through an
// EventSink instead.
func WithInsertHook(hook InsertHook) RepositoryOption {
	return func(o *repositoryOptions) {
		o.insertHook = hook
	}
}

func newRepositoryOptions(opts []RepositoryOption) repositoryOptions {
	o := repositoryOptions{generator: entity.DefaultGenerator}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// translateWriteError maps constraint violations onto the package sentinels,
// keeping the driver error in the chain.
func translateWriteError(err error, u *model.User) error {
	id, _ := u.Identity()
	switch database.ConstraintViolation(err) {
	case database.PrimaryKeyViolation:
		return fmt.Errorf("save user %d: %w: %w", id, ErrDuplicateIdentity, err)
	case database.UniqueViolation:
		return fmt.Errorf("save user %d: %w: %w", id, ErrDuplicateUsername, err)
	}
	return fmt.Errorf("save user %d: %w", id, err)
}
