package store

import (
	"context"
	"errors"

	"photo-backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// PhotoFilter narrows Find. Zero value matches every photo.
type PhotoFilter struct {
	// OwnerID keeps photos whose owner equals the value. Nil disables the filter.
	OwnerID *string
	// TitleContains matches titles containing the value, ignoring case.
	// Nil disables the filter; an empty string matches every title.
	TitleContains *string
}

// PhotoRepository is the persistence engine behind the photo service.
// Find returns photos ordered by CreatedAt, newest first.
type PhotoRepository interface {
	Insert(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	Find(ctx context.Context, filter PhotoFilter) ([]*models.Photo, error)
	Update(ctx context.Context, photo *models.Photo) error
	Delete(ctx context.Context, id string) (bool, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// Store bundles both repositories over a single backend.
type Store interface {
	PhotoRepository
	UserRepository
	Close() error
}
