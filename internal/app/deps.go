package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pH-1491/Video-Backend/internal/auth"
	"github.com/pH-1491/Video-Backend/internal/config"
	"github.com/pH-1491/Video-Backend/internal/db"
	"github.com/pH-1491/Video-Backend/internal/engagement"
	"github.com/pH-1491/Video-Backend/internal/handlers"
	"github.com/pH-1491/Video-Backend/internal/media"
	"github.com/pH-1491/Video-Backend/internal/middleware"
	"github.com/pH-1491/Video-Backend/internal/repositories"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)
	engagementRepo := repositories.NewPostgresEngagementRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	manager := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, sessionStore)

	engagementSvc := engagement.NewService(engagementRepo, users, videos, comments, tweets)
	stats := engagement.NewCachingStatsProvider(engagementRepo, cfg.StatsCacheTTL)

	storage, err := media.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
	}
	prober := media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout)
	mediaSvc := media.NewService(storage, prober)

	credentialLimiter := middleware.NewIPRateLimiter(
		int(cfg.RateLimitPerSecond),
		time.Second,
		cfg.RateLimitBurst,
		5*time.Minute,
	)

	return handlers.Dependencies{
		Users:      users,
		Videos:     videos,
		Comments:   comments,
		Tweets:     tweets,
		Playlists:  playlists,
		Engagement: engagementSvc,
		Stats:      stats,
		Sessions:   manager,
		Verifier:   manager,
		Media:      mediaSvc,
		UploadDir:  cfg.UploadDir,

		CredentialLimiter: credentialLimiter,
	}, nil
}
