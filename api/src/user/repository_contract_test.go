package user_test

import (
	"context"
	"testing"

	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/entity"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/model"
	"github.com/KirillKurdyukov/spring-data-ydb-examples/api/src/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repositoryFactory returns a repository over an empty users table.
type repositoryFactory func(t *testing.T, opts ...user.RepositoryOption) user.Repository

func fixedGenerator(id int64) entity.Generator {
	return entity.GeneratorFunc(func() int64 { return id })
}

func newUser(username, firstname, lastname string) *model.User {
	u := model.NewUnsaved(firstname, lastname)
	u.Username = username
	return u
}

func saveAll(t *testing.T, repo user.Repository, users ...*model.User) {
	t.Helper()
	for _, u := range users {
		_, err := repo.Save(context.Background(), u)
		require.NoError(t, err)
	}
}

func lastnames(users []model.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Lastname)
	}
	return names
}

func runRepositoryContract(t *testing.T, newRepository repositoryFactory) {
	ctx := context.Background()

	t.Run("save assigns identity", func(t *testing.T) {
		repo := newRepository(t)
		dave := newUser("dave", "Dave", "Matthews")
		require.True(t, dave.IsNew())

		saved, err := repo.Save(ctx, dave)
		require.NoError(t, err)
		assert.False(t, saved.IsNew())
		assert.Same(t, dave, saved)

		found, err := repo.FindByID(ctx, *saved.GetID())
		require.NoError(t, err)
		assert.NotSame(t, saved, found)
		assert.True(t, saved.Equal(found))
		assert.Equal(t, saved.HashCode(), found.HashCode())
		assert.Equal(t, "dave", found.Username)
		assert.Equal(t, "Dave", found.Firstname)
		assert.Equal(t, "Matthews", found.Lastname)
	})

	t.Run("saved users get distinct identities", func(t *testing.T) {
		repo := newRepository(t)
		a, b := newUser("a", "A", "A"), newUser("b", "B", "B")
		saveAll(t, repo, a, b)

		assert.NotEqual(t, *a.GetID(), *b.GetID())
		assert.False(t, a.Equal(b))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("identity collision is reported as duplicate identity", func(t *testing.T) {
		repo := newRepository(t, user.WithGenerator(fixedGenerator(42)))
		saveAll(t, repo, newUser("first", "F", "F"))

		second := newUser("second", "S", "S")
		_, err := repo.Save(ctx, second)
		require.Error(t, err)
		assert.ErrorIs(t, err, user.ErrDuplicateIdentity)
		assert.NotErrorIs(t, err, user.ErrDuplicateUsername)
		require.NotNil(t, second.GetID())
		assert.EqualValues(t, 42, *second.GetID())

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("username collision is reported as duplicate username", func(t *testing.T) {
		repo := newRepository(t)
		saveAll(t, repo, newUser("dave", "Dave", "Matthews"))

		_, err := repo.Save(ctx, newUser("dave", "David", "Gilmour"))
		assert.ErrorIs(t, err, user.ErrDuplicateUsername)
		assert.NotErrorIs(t, err, user.ErrDuplicateIdentity)
	})

	t.Run("users without username do not collide", func(t *testing.T) {
		repo := newRepository(t)
		saveAll(t, repo, newUser("", "A", "A"), newUser("", "B", "B"))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("save merges records with identity", func(t *testing.T) {
		repo := newRepository(t)
		dave := newUser("dave", "Dave", "Matthews")
		saveAll(t, repo, dave)

		dave.Firstname = "David"
		saveAll(t, repo, dave)

		found, err := repo.FindByID(ctx, *dave.GetID())
		require.NoError(t, err)
		assert.Equal(t, "David", found.Firstname)

		explicit := model.NewUserWithID(7)
		explicit.Username = "seven"
		saveAll(t, repo, explicit)

		exists, err := repo.ExistsByID(ctx, 7)
		require.NoError(t, err)
		assert.True(t, exists)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("update cannot steal a username", func(t *testing.T) {
		repo := newRepository(t)
		dave, carter := newUser("dave", "Dave", "Matthews"), newUser("carter", "Carter", "Beauford")
		saveAll(t, repo, dave, carter)

		carter.Username = "dave"
		_, err := repo.Save(ctx, carter)
		assert.ErrorIs(t, err, user.ErrDuplicateUsername)
	})

	t.Run("find by the users name", func(t *testing.T) {
		repo := newRepository(t)
		dave := newUser("dave", "Dave", "Matthews")
		saveAll(t, repo, dave, newUser("carter", "Carter", "Beauford"))

		found, err := repo.FindByTheUsersName(ctx, "dave")
		require.NoError(t, err)
		assert.True(t, dave.Equal(found))

		_, err = repo.FindByTheUsersName(ctx, "nobody")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("derived finders", func(t *testing.T) {
		repo := newRepository(t)
		saveAll(t, repo,
			newUser("dave", "Dave", "Matthews"),
			newUser("oliver", "Oliver", "August"),
			newUser("matt", "Matthews", "Carter"),
		)

		byLastname, err := repo.FindByLastname(ctx, "Matthews")
		require.NoError(t, err)
		require.Len(t, byLastname, 1)
		assert.Equal(t, "dave", byLastname[0].Username)

		byFirstname, err := repo.FindByFirstname(ctx, "Oliver")
		require.NoError(t, err)
		require.Len(t, byFirstname, 1)
		assert.Equal(t, "oliver", byFirstname[0].Username)

		byEither, err := repo.FindByFirstnameOrLastname(ctx, "Matthews")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Matthews", "Carter"}, lastnames(byEither))

		firstTwo, err := repo.FindFirst2ByOrderByLastnameAsc(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"August", "Carter"}, lastnames(firstTwo))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("remove by lastname returns removed count", func(t *testing.T) {
		repo := newRepository(t)
		saveAll(t, repo,
			newUser("a", "A", "Smith"),
			newUser("b", "B", "Smith"),
			newUser("c", "C", "Jones"),
		)

		removed, err := repo.RemoveByLastname(ctx, "Smith")
		require.NoError(t, err)
		assert.EqualValues(t, 2, removed)

		removed, err = repo.RemoveByLastname(ctx, "Smith")
		require.NoError(t, err)
		assert.EqualValues(t, 0, removed)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepository(t)
		dave := newUser("dave", "Dave", "Matthews")
		saveAll(t, repo, dave)

		require.NoError(t, repo.Delete(ctx, dave))
		exists, err := repo.ExistsByID(ctx, *dave.GetID())
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = repo.FindByID(ctx, *dave.GetID())
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		assert.NoError(t, repo.Delete(ctx, newUser("never", "Saved", "User")))
	})

	t.Run("reference equals loaded record", func(t *testing.T) {
		repo := newRepository(t)
		dave := newUser("dave", "Dave", "Matthews")
		saveAll(t, repo, dave)

		ref := repo.GetReference(*dave.GetID())
		assert.False(t, ref.Loaded())
		assert.True(t, ref.Equal(dave))
		assert.True(t, dave.Equal(ref))
		assert.Equal(t, dave.HashCode(), ref.HashCode())
		assert.False(t, ref.Loaded())

		loaded, err := ref.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ref.Loaded())
		assert.Equal(t, "dave", loaded.Username)

		missing := repo.GetReference(*dave.GetID() + 1)
		_, err = missing.Load(ctx)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
		assert.False(t, missing.Loaded())
	})
}
