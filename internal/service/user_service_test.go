package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"users-api/internal/hash"
	"users-api/internal/repository"
	"users-api/internal/repository/sqlite"
)

func newUserService(t *testing.T) (UserService, repository.UserRepository) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))

	return NewUserService(repo, hash.NewHasher(4)), repo
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "foo", "foo@email.com", "foobar")
	require.NoError(t, err)
	require.Empty(t, first.PasswordHash)

	_, err = svc.Create(ctx, "bar", "bar@email.com", "barbar")
	require.NoError(t, err)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		require.Empty(t, u.PasswordHash)
	}
}

func TestCreateDuplicate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "foo", "foo@email.com", "foobar")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "bar", "foo@email.com", "barbar")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetMissingUser(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateNeverChangesPasswordHash(t *testing.T) {
	svc, repo := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "foo", "foo@email.com", "foobar")
	require.NoError(t, err)

	before, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, "renamed", "renamed@email.com")
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Username)

	after, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestUpdateMissingUser(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Update(context.Background(), 999, "foo", "foo@email.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteReturnsRemovedUser(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "foo", "foo@email.com", "foobar")
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "foo@email.com", removed.Email)

	_, err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}
