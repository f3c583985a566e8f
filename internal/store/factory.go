package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"photo-backend/internal/config"
	"photo-backend/internal/db"
)

// New opens the backend selected by cfg.StoreDriver and ensures its schema exists.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, perr := db.NewPool(ctx, db.PoolConfig{
			ConnString:      cfg.PostgresDSN(),
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		}, log)
		if perr != nil {
			return nil, perr
		}
		s = NewPostgresStore(pool)
	case config.DriverSQLite:
		s, err = NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}

	log.Info().Str("driver", cfg.StoreDriver).Msg("initializing database schema (ensuring tables exist)")
	if err := s.(schemaCreator).CreateSchema(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

type schemaCreator interface {
	CreateSchema(ctx context.Context) error
}
