package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"photo-backend/internal/models"
)

const uniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	profile_image TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS photos (
	id         TEXT PRIMARY KEY,
	image      TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	owner_id   TEXT NOT NULL,
	owner_name TEXT NOT NULL DEFAULT '',
	likes      TEXT[] NOT NULL DEFAULT '{}',
	comments   JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	seq        BIGSERIAL
);

ALTER TABLE photos ADD COLUMN IF NOT EXISTS seq BIGSERIAL;

CREATE INDEX IF NOT EXISTS photos_owner_created_idx ON photos (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS photos_created_idx ON photos (created_at DESC);
`

const photoColumns = `id, image, title, owner_id, owner_name, likes, comments, created_at, updated_at`

// PostgresStore persists users and photos through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) CreateSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresSchema)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, photo *models.Photo) error {
	id := uuid.New().String()
	query := `INSERT INTO photos (` + photoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.pool.Exec(ctx, query,
		id, photo.Image, photo.Title, photo.OwnerID, photo.OwnerName,
		nonNilLikes(photo.Likes), nonNilComments(photo.Comments), photo.CreatedAt, photo.UpdatedAt)
	if err != nil {
		return err
	}
	photo.ID = id
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	photo, err := scanPhoto(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *PostgresStore) Find(ctx context.Context, filter PhotoFilter) ([]*models.Photo, error) {
	var (
		conds []string
		args  []any
	)
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.TitleContains != nil {
		args = append(args, *filter.TitleContains)
		conds = append(conds, fmt.Sprintf("strpos(lower(title), lower($%d)) > 0", len(args)))
	}

	query := `SELECT ` + photoColumns + ` FROM photos`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []*models.Photo{}
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, rows.Err()
}

// Update writes the mutable fields only: title, likes, comments and updated_at.
func (s *PostgresStore) Update(ctx context.Context, photo *models.Photo) error {
	query := `UPDATE photos SET title = $2, likes = $3, comments = $4, updated_at = $5 WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query,
		photo.ID, photo.Title, nonNilLikes(photo.Likes), nonNilComments(photo.Comments), photo.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	id := uuid.New().String()
	query := `INSERT INTO users (id, username, name, profile_image, password_hash) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := s.pool.QueryRow(ctx, query, id, user.Username, user.Name, user.ProfileImage, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return err
	}
	user.ID = id
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, username, name, profile_image, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, username, name, profile_image, password_hash, created_at FROM users WHERE username = $1`, username)
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Name, &u.ProfileImage, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET name = $2, profile_image = $3 WHERE id = $1`, user.ID, user.Name, user.ProfileImage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var p models.Photo
	if err := row.Scan(&p.ID, &p.Image, &p.Title, &p.OwnerID, &p.OwnerName, &p.Likes, &p.Comments, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Likes = nonNilLikes(p.Likes)
	p.Comments = nonNilComments(p.Comments)
	return &p, nil
}

func nonNilLikes(likes []string) []string {
	if likes == nil {
		return []string{}
	}
	return likes
}

func nonNilComments(comments []models.Comment) []models.Comment {
	if comments == nil {
		return []models.Comment{}
	}
	return comments
}
