package sqliterepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/scribeav/go-transcribe-server/internal/errors"
	"github.com/scribeav/go-transcribe-server/internal/sqlitedb"
	"github.com/scribeav/go-transcribe-server/users/sqliterepo"
)

func newTestRepo(t *testing.T) *sqliterepo.Repo {
	t.Helper()
	pool, err := sqlitedb.Open(sqlitedb.Config{Path: ":memory:", PoolSize: 1})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, pool.Close()) })
	return sqliterepo.New(pool)
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "john.doe@example.com")
	require.NoError(t, err)
	require.Positive(t, created.ID)
	require.Equal(t, "john.doe@example.com", created.Name)
	require.Zero(t, created.Credit)
	require.NotZero(t, created.CreatedAt)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, byID)

	byName, err := repo.GetByName(ctx, "john.doe@example.com")
	require.NoError(t, err)
	require.Equal(t, created, byName)
}

func TestGetMissingUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.GetByName(ctx, "nobody@example.com")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestCreateDuplicateNameFails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "john.doe@example.com")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "john.doe@example.com")
	require.ErrorIs(t, err, apperrors.ErrDependencyFailure)
}

func TestSetCredit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "john.doe@example.com")
	require.NoError(t, err)

	require.NoError(t, repo.SetCredit(ctx, created.ID, 120))

	updated, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(120), updated.Credit)
}

func TestSetCreditMissingUser(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SetCredit(context.Background(), 999, 120)
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
