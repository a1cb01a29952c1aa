package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"user-registration-service/internal/domain/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every pooled connection would otherwise open its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func setupTestRepo(t *testing.T) *UserRepoPG {
	return NewUserRepoPG(setupTestDB(t), zaptest.NewLogger(t))
}

func strPtr(s string) *string { return &s }

func newUser(suffix string) *user.User {
	return &user.User{
		Name:     "User " + suffix,
		Email:    suffix + "@example.com",
		Username: "user" + suffix,
		Contact:  "555-" + suffix,
	}
}

func TestUserRepoPG_Create(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	u := newUser("1")
	u.ProfilePicture = strPtr("1700000000000.png")
	require.NoError(t, repo.Create(ctx, u))

	_, err := uuid.Parse(u.ID)
	require.NoError(t, err, "generated ID should be a UUID")

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestUserRepoPG_Create_Nil(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Create(context.Background(), nil)
	assert.EqualError(t, err, "user cannot be nil")
}

func TestUserRepoPG_Create_UniqueConstraints(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("1")))

	sameEmail := newUser("2")
	sameEmail.Email = "1@example.com"
	assert.Error(t, repo.Create(ctx, sameEmail))

	sameUsername := newUser("3")
	sameUsername.Username = "user1"
	assert.Error(t, repo.Create(ctx, sameUsername))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepoPG_GetByID_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	got, err := repo.GetByID(context.Background(), uuid.New().String())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepoPG_GetForUpdate(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	u := newUser("1")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetForUpdate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = repo.GetForUpdate(ctx, uuid.New().String())
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepoPG_FindByEmailOrUsername(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	existing := newUser("1")
	require.NoError(t, repo.Create(ctx, existing))

	tests := []struct {
		name     string
		email    string
		username string
		found    bool
	}{
		{"email matches", "1@example.com", "nobody", true},
		{"username matches", "nobody@example.com", "user1", true},
		{"both match", "1@example.com", "user1", true},
		{"neither matches", "2@example.com", "user2", false},
		{"empty values", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByEmailOrUsername(ctx, tt.email, tt.username)
			require.NoError(t, err)
			if tt.found {
				require.NotNil(t, got)
				assert.Equal(t, existing.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestUserRepoPG_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	u := newUser("1")
	u.ProfilePicture = strPtr("old.png")
	require.NoError(t, repo.Create(ctx, u))

	u.Contact = "777"
	u.ProfilePicture = strPtr("new.png")
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "777", got.Contact)
	assert.Equal(t, "new.png", *got.ProfilePicture)
	assert.Equal(t, u.Name, got.Name)
}

func TestUserRepoPG_Update_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	u := newUser("1")
	u.ID = uuid.New().String()

	assert.ErrorIs(t, repo.Update(context.Background(), u), user.ErrNotFound)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users, "update must never create a user")
}

func TestUserRepoPG_Update_DuplicateEmail(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first := newUser("1")
	second := newUser("2")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	second.Email = first.Email
	assert.Error(t, repo.Update(ctx, second))
}

func TestUserRepoPG_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	u := newUser("1")
	require.NoError(t, repo.Create(ctx, u))

	deleted, err := repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, deleted)

	_, err = repo.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepoPG_List(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	var ids []string
	for i := 0; i < 5; i++ {
		u := newUser(fmt.Sprint(i))
		require.NoError(t, repo.Create(ctx, u))
		ids = append(ids, u.ID)
	}

	_, err = repo.Delete(ctx, ids[2])
	require.NoError(t, err)

	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

func TestUserRepoPG_List_ClosedDB(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepoPG(db, zaptest.NewLogger(t))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.List(context.Background())
	assert.Error(t, err)
}
