package store

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"photo-backend/internal/db"
)

// newTestPostgresStore connects to PHOTO_TEST_DATABASE_URL and empties the tables.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("PHOTO_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PHOTO_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, db.PoolConfig{ConnString: dsn, MaxConns: 4}, zerolog.Nop())
	require.NoError(t, err)
	s := NewPostgresStore(pool)
	t.Cleanup(func() {
		_ = s.Close()
	})

	require.NoError(t, s.CreateSchema(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE photos, users`)
	require.NoError(t, err)
	return s
}

func TestPostgresStore(t *testing.T) {
	testStoreContract(t, func(t *testing.T) Store {
		return newTestPostgresStore(t)
	})
}
