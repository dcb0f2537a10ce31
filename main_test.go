package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/snaplinkhq/snaplink/internal/database"
	"github.com/snaplinkhq/snaplink/internal/repository"
)

func newSeedRepo(t *testing.T, name string) repository.UserRepository {
	t.Helper()
	db, err := database.OpenSQLite("file:" + name + "?mode=memory&cache=shared&_fk=1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, database.SQLite))
	return repository.NewSQLUserRepository(db)
}

func TestSeedAdminCreatesOnce(t *testing.T) {
	users := newSeedRepo(t, "seedonce")
	ctx := context.Background()

	require.NoError(t, seedAdmin(ctx, users, "admin@example.com", "sup3rs3cret"))
	require.NoError(t, seedAdmin(ctx, users, "admin@example.com", "sup3rs3cret"))

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "admin@example.com", all[0].Email)
	assert.True(t, all[0].IsAdmin)

	got, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("sup3rs3cret")))
}

func TestSeedAdminLeavesExistingAccount(t *testing.T) {
	users := newSeedRepo(t, "seedexisting")
	ctx := context.Background()
	_, err := users.Create(ctx, "admin@example.com", "existing-hash", false)
	require.NoError(t, err)

	require.NoError(t, seedAdmin(ctx, users, "admin@example.com", "newpassword"))

	got, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.False(t, got.IsAdmin, "an existing account is never modified")
	assert.Equal(t, "existing-hash", got.Password)
}
