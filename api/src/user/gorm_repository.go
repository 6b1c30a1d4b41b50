package user

import (
	"context"
	"fmt"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/entity"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"

	"gorm.io/gorm"
)

type gormRepository struct {
	db         *gorm.DB
	generator  entity.Generator
	insertHook InsertHook
}

func NewGormRepository(db *gorm.DB, opts ...RepositoryOption) Repository {
	o := newRepositoryOptions(opts)
	return &gormRepository{db: db, generator: o.generator, insertHook: o.insertHook}
}

func (r *gormRepository) Save(ctx context.Context, u *model.User) (*model.User, error) {
	db := r.db.WithContext(ctx)

	if u.IsNew() {
		id := entity.AssignIdentity(u, r.generator)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(u).Error; err != nil {
				return translateWriteError(err, u)
			}
			if r.insertHook == nil {
				return nil
			}
			if err := r.insertHook(ctx, tx, u); err != nil {
				return fmt.Errorf("save user %d: %w", id, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	}

	if err := db.Save(u).Error; err != nil {
		return nil, translateWriteError(err, u)
	}
	return u, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("exists user %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *gormRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *gormRepository) Delete(ctx context.Context, u *model.User) error {
	id, ok := u.Identity()
	if !ok {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

func (r *gormRepository) FindByTheUsersName(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, model.FindByTheUsersName.Where, username)
}

func (r *gormRepository) FindByLastname(ctx context.Context, lastname string) ([]model.User, error) {
	return r.findMany(ctx, "lastname = ?", lastname)
}

func (r *gormRepository) FindByFirstname(ctx context.Context, firstname string) ([]model.User, error) {
	return r.findMany(ctx, "firstname = ?", firstname)
}

func (r *gormRepository) FindByFirstnameOrLastname(ctx context.Context, name string) ([]model.User, error) {
	return r.findMany(ctx, "firstname = ? OR lastname = ?", name, name)
}

func (r *gormRepository) FindFirst2ByOrderByLastnameAsc(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("lastname").Order("id").Limit(2).Find(&users).Error
	return users, err
}

func (r *gormRepository) RemoveByLastname(ctx context.Context, lastname string) (int64, error) {
	result := r.db.WithContext(ctx).Where("lastname = ?", lastname).Delete(&model.User{})
	if result.Error != nil {
		return 0, fmt.Errorf("remove users by lastname: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *gormRepository) GetReference(id int64) *LazyUser {
	return NewLazyUser(id, r.FindByID)
}

func (r *gormRepository) findOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where(query, args...).Limit(1).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

func (r *gormRepository) findMany(ctx context.Context, query string, args ...any) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where(query, args...).Order("id").Find(&users).Error
	return users, err
}
