package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseRepository runs the behaviour every Repository must share.
func exerciseRepository(t *testing.T, r Repository) {
	t.Helper()
	ctx := context.Background()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = r.GetUserByLogin(ctx, "admin")
	require.ErrorIs(t, err, common.ErrorNotFound)

	created, err := r.Create(ctx, &models.User{UserName: "teacher", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.Equal(t, "teacher", created.UserName)
	assert.False(t, created.IsAdmin)

	_, err = r.Create(ctx, &models.User{UserName: "admin", PasswordHash: "h2", IsAdmin: true})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{UserName: "admin", PasswordHash: "other"})
	require.ErrorIs(t, err, common.ErrorLoginAlreadyExists)

	got, err := r.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash, "duplicate create must not overwrite")
	assert.True(t, got.IsAdmin)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "admin", list[0].UserName)
	assert.Equal(t, "teacher", list[1].UserName)

	require.NoError(t, r.UpdatePasswordHash(ctx, "teacher", "h3"))
	got, err = r.GetUserByLogin(ctx, "teacher")
	require.NoError(t, err)
	assert.Equal(t, "h3", got.PasswordHash)

	require.ErrorIs(t, r.UpdatePasswordHash(ctx, "ghost", "x"), common.ErrorNotFound)
	require.ErrorIs(t, r.Delete(ctx, "ghost"), common.ErrorNotFound)

	require.NoError(t, r.Delete(ctx, "teacher"))
	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = r.GetUserByLogin(ctx, "teacher")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository(&models.User{UserName: "admin", PasswordHash: "h"})

	u, err := r.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	u.PasswordHash = "tampered"

	again, err := r.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "h", again.PasswordHash)
}
