package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/entity"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyUserLoadsOnce(t *testing.T) {
	calls := 0
	ref := user.NewLazyUser(5, func(_ context.Context, id int64) (*model.User, error) {
		calls++
		return model.NewUserWithID(id), nil
	})

	id, ok := ref.Identity()
	assert.True(t, ok)
	assert.EqualValues(t, 5, id)
	assert.Zero(t, calls)

	for i := 0; i < 3; i++ {
		u, err := ref.Load(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 5, *u.GetID())
	}
	assert.Equal(t, 1, calls)
}

func TestLazyUserRetriesFailedLoad(t *testing.T) {
	fail := true
	ref := user.NewLazyUser(5, func(_ context.Context, id int64) (*model.User, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return model.NewUserWithID(id), nil
	})

	_, err := ref.Load(context.Background())
	assert.Error(t, err)

	fail = false
	_, err = ref.Load(context.Background())
	assert.NoError(t, err)
}

func TestLazyUserEquality(t *testing.T) {
	ref := user.NewLazyUser(5, nil)

	assert.Equal(t, entity.RealType(model.NewUser()), entity.RealType(ref))
	assert.True(t, ref.Equal(model.NewUserWithID(5)))
	assert.True(t, model.NewUserWithID(5).Equal(ref))
	assert.True(t, ref.Equal(user.NewLazyUser(5, nil)))
	assert.False(t, ref.Equal(model.NewUserWithID(6)))
	assert.False(t, ref.Equal(model.NewUser()))
	assert.False(t, ref.Equal(nil))
	assert.Equal(t, model.NewUserWithID(5).HashCode(), ref.HashCode())
}
