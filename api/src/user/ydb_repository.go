package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/database"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/entity"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"

	"github.com/ydb-platform/ydb-go-sdk/v3/retry"
)

const (
	ydbUserColumns = "id, username, firstname, lastname"

	ydbInsertUser = `INSERT INTO users (id, username, firstname, lastname)
VALUES ($id, $username, $firstname, $lastname)`
	ydbUpsertUser = `UPSERT INTO users (id, username, firstname, lastname)
VALUES ($id, $username, $firstname, $lastname)`
	ydbUsernameOwner = `SELECT id FROM users VIEW idx_users_username WHERE username = $username`

	ydbFindByID           = "SELECT " + ydbUserColumns + " FROM users WHERE id = $id"
	ydbCountByID          = "SELECT COUNT(*) FROM users WHERE id = $id"
	ydbFindAll            = "SELECT " + ydbUserColumns + " FROM users ORDER BY id"
	ydbCount              = "SELECT COUNT(*) FROM users"
	ydbDeleteByID         = "DELETE FROM users WHERE id = $id"
	ydbFindByTheUsersName = "SELECT " + ydbUserColumns + " FROM users VIEW idx_users_username WHERE username = $p1"
	ydbFindByLastname     = "SELECT " + ydbUserColumns + " FROM users WHERE lastname = $lastname ORDER BY id"
	ydbFindByFirstname    = "SELECT " + ydbUserColumns + " FROM users WHERE firstname = $firstname ORDER BY id"
	ydbFindByFirstOrLast  = "SELECT " + ydbUserColumns + " FROM users WHERE firstname = $name OR lastname = $name ORDER BY id"
	ydbFindFirst2ByLast   = "SELECT " + ydbUserColumns + " FROM users ORDER BY lastname, id LIMIT 2"
	ydbCountByLastname    = "SELECT COUNT(*) FROM users WHERE lastname = $lastname"
	ydbDeleteByLastname   = "DELETE FROM users WHERE lastname = $lastname"
)

var errUsernameTaken = errors.New("username owned by another user")

type ydbRepository struct {
	db        *sql.DB
	generator entity.Generator
}

// NewYdbRepository expects a connector with auto declared parameters, as
// returned by database.OpenYdb.
func NewYdbRepository(db *sql.DB, opts ...RepositoryOption) Repository {
	o := newRepositoryOptions(opts)
	return &ydbRepository{db: db, generator: o.generator}
}

func (r *ydbRepository) Save(ctx context.Context, u *model.User) (*model.User, error) {
	query := ydbUpsertUser
	inserting := u.IsNew()
	if inserting {
		entity.AssignIdentity(u, r.generator)
		query = ydbInsertUser
	}
	id, _ := u.Identity()

	err := retry.DoTx(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := checkUsernameOwner(ctx, tx, u.Username, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, query,
			sql.Named("id", id),
			sql.Named("username", nullableText(u.Username)),
			sql.Named("firstname", u.Firstname),
			sql.Named("lastname", u.Lastname),
		)
		return err
	})
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, errUsernameTaken):
		return nil, fmt.Errorf("save user %d: %w", id, ErrDuplicateUsername)
	case !inserting && database.ConstraintViolation(err) != database.NoViolation:
		// an upsert cannot collide on the key, only on the username index
		return nil, fmt.Errorf("save user %d: %w: %w", id, ErrDuplicateUsername, err)
	}
	return nil, translateWriteError(err, u)
}

func checkUsernameOwner(ctx context.Context, tx *sql.Tx, username string, id int64) error {
	if username == "" {
		return nil
	}
	var owner int64
	err := tx.QueryRowContext(ctx, ydbUsernameOwner, sql.Named("username", username)).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	case owner != id:
		return errUsernameTaken
	}
	return nil
}

func (r *ydbRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.queryOne(ctx, ydbFindByID, sql.Named("id", id))
}

func (r *ydbRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	n, err := r.count(ctx, ydbCountByID, sql.Named("id", id))
	if err != nil {
		return false, fmt.Errorf("exists user %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *ydbRepository) FindAll(ctx context.Context) ([]model.User, error) {
	return r.queryMany(ctx, ydbFindAll)
}

func (r *ydbRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, ydbCount)
}

func (r *ydbRepository) Delete(ctx context.Context, u *model.User) error {
	id, ok := u.Identity()
	if !ok {
		return nil
	}
	return retry.DoTx(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, ydbDeleteByID, sql.Named("id", id))
		return err
	}, retry.WithIdempotent(true))
}

func (r *ydbRepository) FindByTheUsersName(ctx context.Context, username string) (*model.User, error) {
	return r.queryOne(ctx, ydbFindByTheUsersName, sql.Named("p1", username))
}

func (r *ydbRepository) FindByLastname(ctx context.Context, lastname string) ([]model.User, error) {
	return r.queryMany(ctx, ydbFindByLastname, sql.Named("lastname", lastname))
}

func (r *ydbRepository) FindByFirstname(ctx context.Context, firstname string) ([]model.User, error) {
	return r.queryMany(ctx, ydbFindByFirstname, sql.Named("firstname", firstname))
}

func (r *ydbRepository) FindByFirstnameOrLastname(ctx context.Context, name string) ([]model.User, error) {
	return r.queryMany(ctx, ydbFindByFirstOrLast, sql.Named("name", name))
}

func (r *ydbRepository) FindFirst2ByOrderByLastnameAsc(ctx context.Context) ([]model.User, error) {
	return r.queryMany(ctx, ydbFindFirst2ByLast)
}

func (r *ydbRepository) RemoveByLastname(ctx context.Context, lastname string) (int64, error) {
	var removed uint64
	err := retry.DoTx(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, ydbCountByLastname, sql.Named("lastname", lastname)).Scan(&removed); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, ydbDeleteByLastname, sql.Named("lastname", lastname))
		return err
	}, retry.WithIdempotent(true))
	if err != nil {
		return 0, fmt.Errorf("remove users by lastname: %w", err)
	}
	return int64(removed), nil
}

func (r *ydbRepository) GetReference(id int64) *LazyUser {
	return NewLazyUser(id, r.FindByID)
}

func (r *ydbRepository) queryOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	users, err := r.queryMany(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

func (r *ydbRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.User, error) {
	var users []model.User
	err := retry.Do(ctx, r.db, func(ctx context.Context, cc *sql.Conn) error {
		users = users[:0]
		rows, err := cc.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	}, retry.WithIdempotent(true))
	return users, err
}

func (r *ydbRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n uint64
	err := retry.Do(ctx, r.db, func(ctx context.Context, cc *sql.Conn) error {
		return cc.QueryRowContext(ctx, query, args...).Scan(&n)
	}, retry.WithIdempotent(true))
	return int64(n), err
}

func scanUser(rows *sql.Rows) (model.User, error) {
	var (
		id                            int64
		username, firstname, lastname sql.NullString
	)
	if err := rows.Scan(&id, &username, &firstname, &lastname); err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:        &id,
		Username:  username.String,
		Firstname: firstname.String,
		Lastname:  lastname.String,
	}, nil
}

// nullableText stores empty strings as NULL so the unique username index
// ignores records without a username.
func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
