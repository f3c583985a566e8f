package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"photo-backend/internal/config"
	"photo-backend/internal/handlers"
	"photo-backend/internal/lock"
	"photo-backend/internal/logger"
	"photo-backend/internal/services"
	"photo-backend/internal/store"
	"photo-backend/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func Run() {
	utils.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("store close error")
		}
	}()

	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize locks")
	}
	defer closeLocker()

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Warn().Err(err).Str("dir", cfg.UploadDir).Msg("failed to create upload dir")
	}

	deps := NewDependencies(cfg, st, locker, log)
	server := NewServer(cfg, deps, log)

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.Listen(cfg.Addr()); err != nil {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down...")
	if err := server.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server shutdown complete")
}

// Dependencies are the services shared by the HTTP routes.
type Dependencies struct {
	Auth   *services.AuthService
	Users  *services.UserService
	Photos *services.PhotoService
	Hub    *handlers.Hub
}

func NewDependencies(cfg *config.Config, st store.Store, locker lock.Locker, log zerolog.Logger) *Dependencies {
	auth := services.NewAuthService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	users := services.NewUserService(st, auth, log)
	hub := handlers.NewHub(log)
	photos := services.NewPhotoService(st, users, locker, hub, log)
	return &Dependencies{
		Auth:   auth,
		Users:  users,
		Photos: photos,
		Hub:    hub,
	}
}

func newLocker(ctx context.Context, cfg *config.Config, log zerolog.Logger) (lock.Locker, func(), error) {
	if !cfg.UsesRedisLocks() {
		log.Info().Msg("using in-process photo locks")
		return lock.NewLocalLocker(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis photo locks")
	return lock.NewRedisLocker(rdb, cfg.ServiceName+":lock:", cfg.LockTTL), func() { _ = rdb.Close() }, nil
}
