package users

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/readinglog/internal/database"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}

	return repo, cleanup
}

func TestRepository_CreateUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser(context.Background(), "testuser", "hash")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "testuser", user.Name)
	assert.False(t, user.Elevated)
}

func TestRepository_CreateUserDuplicateName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, "testuser", "hash")
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, "testuser", "other")
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRepository_GetUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, "testuser", "hash")
	require.NoError(t, err)

	byName, err := repo.GetUserByName(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", byID.Name)

	_, err = repo.GetUserByName(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
