package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"photo-backend/internal/models"
)

// MemoryStore keeps records in process. Returned values are copies.
type MemoryStore struct {
	mu     sync.RWMutex
	seq    uint64
	photos map[string]memoryPhoto
	users  map[string]models.User
}

type memoryPhoto struct {
	seq   uint64
	photo *models.Photo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		photos: make(map[string]memoryPhoto),
		users:  make(map[string]models.User),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, photo *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	photo.ID = uuid.New().String()
	s.seq++
	s.photos[photo.ID] = memoryPhoto{seq: s.seq, photo: photo.Clone()}
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.photo.Clone(), nil
}

func (s *MemoryStore) Find(ctx context.Context, filter PhotoFilter) ([]*models.Photo, error) {
	s.mu.RLock()
	matched := make([]memoryPhoto, 0, len(s.photos))
	for _, p := range s.photos {
		if filter.OwnerID != nil && p.photo.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.TitleContains != nil && !containsFold(p.photo.Title, *filter.TitleContains) {
			continue
		}
		matched = append(matched, memoryPhoto{seq: p.seq, photo: p.photo.Clone()})
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.photo.CreatedAt.Equal(b.photo.CreatedAt) {
			return a.photo.CreatedAt.After(b.photo.CreatedAt)
		}
		return a.seq > b.seq
	})

	photos := make([]*models.Photo, 0, len(matched))
	for _, m := range matched {
		photos = append(photos, m.photo)
	}
	return photos, nil
}

// Update writes the mutable fields only: title, likes, comments and updated_at.
func (s *MemoryStore) Update(ctx context.Context, photo *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.photos[photo.ID]
	if !ok {
		return ErrNotFound
	}
	next := current.photo.Clone()
	next.Title = photo.Title
	next.Likes = append([]string(nil), photo.Likes...)
	next.Comments = append([]models.Comment(nil), photo.Comments...)
	next.UpdatedAt = photo.UpdatedAt
	s.photos[photo.ID] = memoryPhoto{seq: current.seq, photo: next}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[id]; !ok {
		return false, nil
	}
	delete(s.photos, id)
	return true, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrConflict
		}
	}
	user.ID = uuid.New().String()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	current.Name = user.Name
	current.ProfileImage = user.ProfileImage
	s.users[user.ID] = current
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
