package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-backend/internal/models"
	"photo-backend/internal/store"
)

func newUserService(t *testing.T) (*UserService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	auth := NewAuthService("test-secret", time.Hour, time.Hour)
	return NewUserService(st, auth, zerolog.Nop()), st
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	users, _ := newUserService(t)
	ctx := context.Background()

	user, err := users.Register(ctx, models.RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Name)
	assert.NotEqual(t, "pw", user.PasswordHash)

	resp, err := users.Login(ctx, models.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)

	id, err := users.auth.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	users, _ := newUserService(t)
	ctx := context.Background()

	_, err := users.Register(ctx, models.RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = users.Register(ctx, models.RegisterRequest{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserService_LoginFailures(t *testing.T) {
	users, _ := newUserService(t)
	ctx := context.Background()

	_, err := users.Register(ctx, models.RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = users.Login(ctx, models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Login(ctx, models.LoginRequest{Username: "nobody", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_ResolveAndUpdateProfile(t *testing.T) {
	users, _ := newUserService(t)
	ctx := context.Background()

	user, err := users.Register(ctx, models.RegisterRequest{Username: "alice", Name: "Alice", Password: "pw"})
	require.NoError(t, err)

	info, err := users.Resolve(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.UserInfo{ID: user.ID, Name: "Alice"}, info)

	avatar := "alice.png"
	updated, err := users.UpdateProfile(ctx, user.ID, nil, &avatar)
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "alice.png", updated.ProfileImage)

	_, err = users.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_RenameKeepsPhotoSnapshots(t *testing.T) {
	users, st := newUserService(t)
	photos := NewPhotoService(st, users, nil, nil, zerolog.Nop())
	ctx := context.Background()

	user, err := users.Register(ctx, models.RegisterRequest{Username: "alice", Name: "Alice", Password: "pw"})
	require.NoError(t, err)

	photo, err := photos.Create(ctx, user.ID, "t", "img.png")
	require.NoError(t, err)
	_, err = photos.AddComment(ctx, user.ID, photo.ID, "hi")
	require.NoError(t, err)

	newName := "Alicia"
	_, err = users.UpdateProfile(ctx, user.ID, &newName, nil)
	require.NoError(t, err)

	stored, err := photos.GetByID(ctx, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.OwnerName)
	assert.Equal(t, "Alice", stored.Comments[0].AuthorName)
}
