package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"photo-backend/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	profile_image TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS photos (
	id         TEXT PRIMARY KEY,
	image      TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	owner_id   TEXT NOT NULL,
	owner_name TEXT NOT NULL DEFAULT '',
	likes      TEXT NOT NULL DEFAULT '[]',
	comments   TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS photos_owner_created_idx ON photos (owner_id, created_at DESC);
`

// SQLiteStore persists users and photos in an embedded SQLite database.
// Timestamps are stored as unix nanoseconds so ORDER BY sorts them exactly.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return err
	}
	_, _ = s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL;")
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, photo *models.Photo) error {
	likes, comments, err := encodeSocial(photo)
	if err != nil {
		return err
	}
	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO photos (`+photoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, photo.Image, photo.Title, photo.OwnerID, photo.OwnerName, likes, comments,
		photo.CreatedAt.UnixNano(), photo.UpdatedAt.UnixNano())
	if err != nil {
		return err
	}
	photo.ID = id
	return nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = ?`, id)
	photo, err := scanSQLitePhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// Find filters owners in SQL and titles in Go, since SQLite's lower() folds ASCII only.
func (s *SQLiteStore) Find(ctx context.Context, filter PhotoFilter) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos`
	var args []any
	if filter.OwnerID != nil {
		query += ` WHERE owner_id = ?`
		args = append(args, *filter.OwnerID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	photos := []*models.Photo{}
	for rows.Next() {
		photo, err := scanSQLitePhoto(rows)
		if err != nil {
			return nil, err
		}
		if filter.TitleContains != nil && !containsFold(photo.Title, *filter.TitleContains) {
			continue
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

// Update writes the mutable fields only: title, likes, comments and updated_at.
func (s *SQLiteStore) Update(ctx context.Context, photo *models.Photo) error {
	likes, comments, err := encodeSocial(photo)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE photos SET title = ?, likes = ?, comments = ?, updated_at = ? WHERE id = ?`,
		photo.Title, likes, comments, photo.UpdatedAt.UnixNano(), photo.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	id := uuid.New().String()
	createdAt := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, name, profile_image, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, user.Username, user.Name, user.ProfileImage, user.PasswordHash, createdAt.UnixNano())
	if err != nil {
		var sqlErr *sqlite.Error
		if errors.As(err, &sqlErr) && sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return ErrConflict
		}
		return err
	}
	user.ID = id
	user.CreatedAt = createdAt
	return nil
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, username, name, profile_image, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, username, name, profile_image, password_hash, created_at FROM users WHERE username = ?`, username)
}

func (s *SQLiteStore) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	var (
		u         models.User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Name, &u.ProfileImage, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(0, createdAt).UTC()
	return &u, nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET name = ?, profile_image = ? WHERE id = ?`, user.Name, user.ProfileImage, user.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePhoto(row rowScanner) (*models.Photo, error) {
	var (
		p                    models.Photo
		likes, comments      string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Image, &p.Title, &p.OwnerID, &p.OwnerName, &likes, &comments, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(likes), &p.Likes); err != nil {
		return nil, fmt.Errorf("decode likes of photo %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(comments), &p.Comments); err != nil {
		return nil, fmt.Errorf("decode comments of photo %s: %w", p.ID, err)
	}
	p.Likes = nonNilLikes(p.Likes)
	p.Comments = nonNilComments(p.Comments)
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &p, nil
}

func encodeSocial(photo *models.Photo) (string, string, error) {
	likes, err := json.Marshal(nonNilLikes(photo.Likes))
	if err != nil {
		return "", "", err
	}
	comments, err := json.Marshal(nonNilComments(photo.Comments))
	if err != nil {
		return "", "", err
	}
	return string(likes), string(comments), nil
}
