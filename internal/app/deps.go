package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dailyreadnest/backend/internal/auth"
	"github.com/dailyreadnest/backend/internal/config"
	"github.com/dailyreadnest/backend/internal/db"
	"github.com/dailyreadnest/backend/internal/directory"
	"github.com/dailyreadnest/backend/internal/handlers"
	"github.com/dailyreadnest/backend/internal/middleware"
	"github.com/dailyreadnest/backend/internal/repositories"
	"github.com/dailyreadnest/backend/internal/storage"
)

// buildDependencies wires together the concrete implementations used by the
// HTTP surface. Image uploads are optional: without a configured bucket the
// photo endpoints report the feature as unavailable.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.RouterConfig, error) {
	users := repositories.NewPostgresUserRepository(pool)
	sessions := auth.NewManager([]byte(cfg.JWTSecret), cfg.AccessTTL, cfg.RefreshTTL, repositories.NewPostgresSessionStore(pool))

	var images handlers.ImageStorage
	if cfg.ObjectStore.Bucket != "" {
		s3, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.RouterConfig{}, err
		}
		images = s3
	}

	return handlers.RouterConfig{
		Logger:         logger,
		Verifier:       sessions,
		Users:          users,
		Directory:      directory.NewCache(users, cfg.DirectoryCacheTTL),
		Sessions:       sessions,
		Social:         repositories.NewPostgresSocialRepository(pool),
		Blogs:          repositories.NewPostgresBlogRepository(pool),
		Images:         images,
		LoginLimiter:   middleware.NewIPRateLimiter(cfg.LoginRateLimit, time.Minute, cfg.LoginRateBurst, 10*time.Minute),
		AllowedOrigins: cfg.AllowedOrigins,
	}, nil
}
