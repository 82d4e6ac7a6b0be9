package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestUser(t *testing.T, db *sql.DB, username, email string) *domain.User {
	t.Helper()

	users := NewUserRepository(db)
	require.NoError(t, users.Init(context.Background()))

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$notarealhash",
		Role:         domain.RoleUser,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUserRepositoryCreateAndGet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, users.Init(ctx))

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	}
	require.NoError(t, users.Create(ctx, user))
	require.False(t, user.CreatedAt.IsZero())

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)
	require.Equal(t, "alice", byEmail.Username)
	require.Equal(t, domain.RoleUser, byEmail.Role)

	byUsername, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, user.ID, byUsername.ID)

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", byID.Email)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, users.Init(ctx))

	first := &domain.User{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, first))

	dup := &domain.User{ID: uuid.NewString(), Username: "other", Email: "alice@example.com", PasswordHash: "h", Role: domain.RoleUser}
	err := users.Create(ctx, dup)
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepositoryNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, users.Init(ctx))

	_, err := users.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = users.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = users.Delete(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryUpdateAndDelete(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()
	require.NoError(t, users.Init(ctx))

	user := &domain.User{ID: uuid.NewString(), Username: "bob", Email: "bob@example.com", PasswordHash: "h", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, user))

	user.Username = "bobby"
	require.NoError(t, users.Update(ctx, user))

	updated, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "bobby", updated.Username)

	require.NoError(t, users.Delete(ctx, user.ID))
	_, err = users.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
