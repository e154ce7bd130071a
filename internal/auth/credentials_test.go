package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"webgen-backend/internal/auth"
	"webgen-backend/internal/database"
)

func createDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	return db
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := auth.NewCredentialStore(createDB(t))
	ctx := context.Background()

	userId, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, userId)

	authedId, err := store.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, userId, authedId)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := createDB(t)
	store := auth.NewCredentialStore(db)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = store.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, auth.ErrDuplicateUsername)

	var count int64
	require.NoError(t, db.Model(&database.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	store := auth.NewCredentialStore(createDB(t))
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = store.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	store := auth.NewCredentialStore(createDB(t))

	_, err := store.Authenticate(context.Background(), "nobody", "pw1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestPasswordsAreHashed(t *testing.T) {
	db := createDB(t)
	store := auth.NewCredentialStore(db)

	_, err := store.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	var user database.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	assert.NotEqual(t, "pw1", user.Hash)
	assert.NotEmpty(t, user.Hash)
}
