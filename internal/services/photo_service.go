package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"photo-backend/internal/lock"
	"photo-backend/internal/metrics"
	"photo-backend/internal/models"
	"photo-backend/internal/store"
)

// Directory resolves a user id to the name and avatar copied into snapshots.
type Directory interface {
	Resolve(ctx context.Context, userID string) (*models.UserInfo, error)
}

// Notifier receives activity after a mutation has been persisted.
type Notifier interface {
	Publish(activity models.Activity)
}

// PhotoService owns the photo lifecycle: ownership checks, likes, comments and queries.
// Mutations of an existing photo run under a per-photo lock so the
// load-check-write sequence cannot interleave with another mutation of the same photo.
type PhotoService struct {
	photos    store.PhotoRepository
	directory Directory
	locker    lock.Locker
	notifier  Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// defaultNow truncates to microseconds, the precision Postgres keeps.
func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func NewPhotoService(photos store.PhotoRepository, directory Directory, locker lock.Locker, notifier Notifier, log zerolog.Logger) *PhotoService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &PhotoService{
		photos:    photos,
		directory: directory,
		locker:    locker,
		notifier:  notifier,
		log:       log.With().Str("component", "photo-service").Logger(),
		now:       defaultNow,
	}
}

// Create stores a new photo owned by the caller. The title is not validated.
func (s *PhotoService) Create(ctx context.Context, callerID, title, image string) (photo *models.Photo, err error) {
	defer func() { s.record("create", err) }()

	owner, err := s.directory.Resolve(ctx, callerID)
	if err != nil {
		return nil, directoryError(callerID, err)
	}

	now := s.now()
	photo = &models.Photo{
		Image:     image,
		Title:     title,
		OwnerID:   owner.ID,
		OwnerName: owner.Name,
		Likes:     []string{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.photos.Insert(ctx, photo); err != nil {
		return nil, persistenceError("insert photo", err)
	}

	s.log.Debug().Str("photo_id", photo.ID).Str("owner_id", photo.OwnerID).Msg("photo created")
	s.publish(models.EventPhotoCreated, photo, callerID, nil)
	return photo, nil
}

// Delete permanently removes a photo owned by the caller and returns its id.
func (s *PhotoService) Delete(ctx context.Context, callerID, photoID string) (id string, err error) {
	defer func() { s.record("delete", err) }()

	var ownerID string
	err = s.withLock(ctx, photoID, func() error {
		photo, err := s.load(ctx, photoID)
		if err != nil {
			return err
		}
		if photo.OwnerID != callerID {
			return ErrForbidden
		}
		ownerID = photo.OwnerID

		deleted, err := s.photos.Delete(ctx, photoID)
		if err != nil {
			return persistenceError("delete photo", err)
		}
		if !deleted {
			return ErrPhotoNotFound
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.Debug().Str("photo_id", photoID).Msg("photo deleted")
	s.publish(models.EventPhotoDeleted, &models.Photo{ID: photoID, OwnerID: ownerID}, callerID, nil)
	return photoID, nil
}

// ListAll returns every photo, newest first.
func (s *PhotoService) ListAll(ctx context.Context) ([]*models.Photo, error) {
	return s.find(ctx, "list_all", store.PhotoFilter{})
}

// ListByOwner returns the photos of one owner, newest first.
func (s *PhotoService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error) {
	return s.find(ctx, "list_by_owner", store.PhotoFilter{OwnerID: &ownerID})
}

// Search matches query as a case-insensitive substring of the title.
// An empty query matches every photo.
func (s *PhotoService) Search(ctx context.Context, query string) ([]*models.Photo, error) {
	return s.find(ctx, "search", store.PhotoFilter{TitleContains: &query})
}

func (s *PhotoService) GetByID(ctx context.Context, photoID string) (photo *models.Photo, err error) {
	defer func() { s.record("get", err) }()
	return s.load(ctx, photoID)
}

// UpdateTitle replaces the title when one is given. A nil title keeps the
// current value, an empty string clears it. UpdatedAt is refreshed either way.
func (s *PhotoService) UpdateTitle(ctx context.Context, callerID, photoID string, title *string) (photo *models.Photo, err error) {
	defer func() { s.record("update_title", err) }()

	err = s.withLock(ctx, photoID, func() error {
		var err error
		photo, err = s.load(ctx, photoID)
		if err != nil {
			return err
		}
		if photo.OwnerID != callerID {
			return ErrForbidden
		}

		if title != nil {
			photo.Title = *title
		}
		photo.UpdatedAt = s.now()
		return s.save(ctx, photo)
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventPhotoUpdated, photo, callerID, nil)
	return photo, nil
}

// Like adds the caller to the photo's like set. Likes are never removed;
// a second like by the same user fails with ErrAlreadyLiked.
func (s *PhotoService) Like(ctx context.Context, callerID, photoID string) (like *models.Like, err error) {
	defer func() { s.record("like", err) }()

	var photo *models.Photo
	err = s.withLock(ctx, photoID, func() error {
		var err error
		photo, err = s.load(ctx, photoID)
		if err != nil {
			return err
		}
		if photo.LikedBy(callerID) {
			return ErrAlreadyLiked
		}

		photo.Likes = append(photo.Likes, callerID)
		photo.UpdatedAt = s.now()
		return s.save(ctx, photo)
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventPhotoLiked, photo, callerID, nil)
	return &models.Like{PhotoID: photoID, UserID: callerID}, nil
}

// AddComment appends a comment by any authenticated caller. The author's
// current name and avatar are copied into the comment.
func (s *PhotoService) AddComment(ctx context.Context, callerID, photoID, text string) (comment *models.Comment, err error) {
	defer func() { s.record("comment", err) }()

	var photo *models.Photo
	err = s.withLock(ctx, photoID, func() error {
		var err error
		photo, err = s.load(ctx, photoID)
		if err != nil {
			return err
		}

		author, err := s.directory.Resolve(ctx, callerID)
		if err != nil {
			return directoryError(callerID, err)
		}

		comment = &models.Comment{
			Text:        text,
			AuthorID:    author.ID,
			AuthorName:  author.Name,
			AuthorImage: author.ProfileImage,
		}
		photo.Comments = append(photo.Comments, *comment)
		photo.UpdatedAt = s.now()
		return s.save(ctx, photo)
	})
	if err != nil {
		return nil, err
	}

	s.publish(models.EventPhotoCommented, photo, callerID, comment)
	return comment, nil
}

func (s *PhotoService) find(ctx context.Context, op string, filter store.PhotoFilter) (photos []*models.Photo, err error) {
	defer func() { s.record(op, err) }()

	photos, err = s.photos.Find(ctx, filter)
	if err != nil {
		return nil, persistenceError("find photos", err)
	}
	return photos, nil
}

func (s *PhotoService) load(ctx context.Context, photoID string) (*models.Photo, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPhotoNotFound
	}
	if err != nil {
		return nil, persistenceError("load photo", err)
	}
	return photo, nil
}

func (s *PhotoService) save(ctx context.Context, photo *models.Photo) error {
	err := s.photos.Update(ctx, photo)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPhotoNotFound
	}
	if err != nil {
		return persistenceError("update photo", err)
	}
	return nil
}

// withLock runs fn while holding the photo's lock. Activity is published by
// the caller once fn has returned and the lock is released.
func (s *PhotoService) withLock(ctx context.Context, photoID string, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, "photo:"+photoID)
	if err != nil {
		return persistenceError("lock photo", err)
	}
	defer unlock()
	return fn()
}

func (s *PhotoService) publish(event string, photo *models.Photo, userID string, comment *models.Comment) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(models.Activity{
		Event:     event,
		PhotoID:   photo.ID,
		UserID:    userID,
		Photo:     photo.Clone(),
		Comment:   comment,
		CreatedAt: s.now(),
	})
}

func (s *PhotoService) record(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrPhotoNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrForbidden):
		outcome = "forbidden"
	case errors.Is(err, ErrAlreadyLiked):
		outcome = "already_liked"
	case errors.Is(err, ErrDirectory):
		outcome = "directory_failure"
	default:
		outcome = "persistence_failure"
	}
	metrics.RecordOperation(op, outcome)

	if err != nil && outcome != "not_found" && outcome != "forbidden" && outcome != "already_liked" {
		s.log.Warn().Err(err).Str("operation", op).Msg("photo operation failed")
	}
}
