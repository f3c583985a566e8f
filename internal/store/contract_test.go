package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-backend/internal/models"
)

// testStoreContract runs the behaviour every backend must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	newPhoto := func(owner, title string, offset time.Duration) *models.Photo {
		at := base.Add(offset)
		return &models.Photo{
			Image:     title + ".png",
			Title:     title,
			OwnerID:   owner,
			OwnerName: owner + "-name",
			Likes:     []string{},
			Comments:  []models.Comment{},
			CreatedAt: at,
			UpdatedAt: at,
		}
	}

	t.Run("insert assigns id and round trips", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := newPhoto("u1", "Sunset", 0)
		require.NoError(t, s.Insert(ctx, p))
		require.NotEmpty(t, p.ID)

		got, err := s.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "Sunset", got.Title)
		assert.Equal(t, "Sunset.png", got.Image)
		assert.Equal(t, "u1", got.OwnerID)
		assert.Equal(t, "u1-name", got.OwnerName)
		assert.Empty(t, got.Likes)
		assert.NotNil(t, got.Likes)
		assert.Empty(t, got.Comments)
		assert.NotNil(t, got.Comments)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find orders newest first and filters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		old := newPhoto("u1", "Cat nap", 0)
		mid := newPhoto("u2", "dog", time.Minute)
		recent := newPhoto("u1", "CATalog", 2*time.Minute)
		for _, p := range []*models.Photo{mid, old, recent} {
			require.NoError(t, s.Insert(ctx, p))
		}

		all, err := s.Find(ctx, PhotoFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{recent.ID, mid.ID, old.ID}, photoIDs(all))

		u1 := "u1"
		mine, err := s.Find(ctx, PhotoFilter{OwnerID: &u1})
		require.NoError(t, err)
		assert.Equal(t, []string{recent.ID, old.ID}, photoIDs(mine))

		q := "cat"
		cats, err := s.Find(ctx, PhotoFilter{TitleContains: &q})
		require.NoError(t, err)
		assert.Equal(t, []string{recent.ID, old.ID}, photoIDs(cats))

		empty := ""
		everything, err := s.Find(ctx, PhotoFilter{TitleContains: &empty})
		require.NoError(t, err)
		assert.Len(t, everything, 3)

		nobody := "nobody"
		none, err := s.Find(ctx, PhotoFilter{OwnerID: &nobody})
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)

		blank := ""
		unowned, err := s.Find(ctx, PhotoFilter{OwnerID: &blank})
		require.NoError(t, err)
		assert.Empty(t, unowned)
	})

	t.Run("find breaks createdAt ties by insertion order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := newPhoto("u1", "first", 0)
		second := newPhoto("u1", "second", 0)
		require.NoError(t, s.Insert(ctx, first))
		require.NoError(t, s.Insert(ctx, second))

		all, err := s.Find(ctx, PhotoFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{second.ID, first.ID}, photoIDs(all))
	})

	t.Run("update writes mutable fields only", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := newPhoto("u1", "before", 0)
		require.NoError(t, s.Insert(ctx, p))

		changed := p.Clone()
		changed.Title = "after"
		changed.Likes = []string{"u2"}
		changed.Comments = []models.Comment{{Text: "hi", AuthorID: "u2", AuthorName: "Bob", AuthorImage: "bob.png"}}
		changed.UpdatedAt = base.Add(time.Hour)
		changed.Image = "other.png"
		changed.OwnerID = "u9"
		changed.OwnerName = "Mallory"
		changed.CreatedAt = base.Add(-time.Hour)
		require.NoError(t, s.Update(ctx, changed))

		got, err := s.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "after", got.Title)
		assert.Equal(t, []string{"u2"}, got.Likes)
		assert.Equal(t, changed.Comments, got.Comments)
		assert.True(t, base.Add(time.Hour).Equal(got.UpdatedAt))
		assert.Equal(t, "before.png", got.Image)
		assert.Equal(t, "u1", got.OwnerID)
		assert.Equal(t, "u1-name", got.OwnerName)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("update missing", func(t *testing.T) {
		s := newStore(t)

		err := s.Update(context.Background(), &models.Photo{ID: "missing"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete reports whether a row was removed", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := newPhoto("u1", "bye", 0)
		require.NoError(t, s.Insert(ctx, p))

		deleted, err := s.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = s.GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u := &models.User{Username: "alice", Name: "Alice", PasswordHash: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		require.NotEmpty(t, u.ID)

		err := s.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "x"})
		assert.ErrorIs(t, err, ErrConflict)

		byName, err := s.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)
		assert.Equal(t, "hash", byName.PasswordHash)

		u.Name = "Alicia"
		u.ProfileImage = "alicia.png"
		require.NoError(t, s.UpdateUser(ctx, u))

		byID, err := s.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", byID.Name)
		assert.Equal(t, "alicia.png", byID.ProfileImage)

		_, err = s.GetUserByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetUserByUsername(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.UpdateUser(ctx, &models.User{ID: "missing"}), ErrNotFound)
	})
}

func photoIDs(photos []*models.Photo) []string {
	out := make([]string, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.ID)
	}
	return out
}
