package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ar-shop/internal/bootstrap"
	"github.com/yanqian/ar-shop/internal/domain/activity"
	"github.com/yanqian/ar-shop/internal/domain/appstate"
	"github.com/yanqian/ar-shop/internal/domain/auth"
	"github.com/yanqian/ar-shop/internal/domain/cart"
	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
	"github.com/yanqian/ar-shop/internal/infra/activityqueue"
	"github.com/yanqian/ar-shop/internal/infra/activityrepo"
	"github.com/yanqian/ar-shop/internal/infra/camera"
	"github.com/yanqian/ar-shop/internal/infra/cartrepo"
	"github.com/yanqian/ar-shop/internal/infra/catalogrepo"
	"github.com/yanqian/ar-shop/internal/infra/config"
	"github.com/yanqian/ar-shop/internal/infra/objectstore"
	"github.com/yanqian/ar-shop/internal/infra/profilerepo"
	"github.com/yanqian/ar-shop/internal/infra/userrepo"
	httpiface "github.com/yanqian/ar-shop/internal/interface/http"
)

// activityQueue delivers session events to storage.
type activityQueue interface {
	activity.Publisher
	bootstrap.Runner
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Google: auth.GoogleConfig{
			ClientID:             cfg.Auth.Google.ClientID,
			ClientSecret:         cfg.Auth.Google.ClientSecret,
			RedirectURL:          cfg.Auth.Google.RedirectURL,
			TokenEncryptionKey:   cfg.Auth.Google.TokenEncryptionKey,
			PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
		},
	}
}

func provideSkinToneConfig(cfg *config.Config) skintone.Config {
	return skintone.Config{
		Pipeline: skintone.PipelineConfig{
			ProgressInterval: cfg.Capture.ProgressInterval,
			ProgressStep:     cfg.Capture.ProgressStep,
			ProgressCap:      cfg.Capture.ProgressCap,
			SettleDelay:      cfg.Capture.SettleDelay,
			FrameRetries:     cfg.Capture.FrameRetries,
		},
		FallbackToDemo: cfg.Analysis.FallbackToDemo,
		SnapshotPrefix: cfg.Analysis.SnapshotPrefix,
	}
}

func provideHandlerConfig(cfg *config.Config) httpiface.HandlerConfig {
	return httpiface.HandlerConfig{
		MaxUploadBytes:       cfg.Analysis.MaxUploadBytes,
		MaxFramePixels:       cfg.Analysis.MaxFramePixels,
		PostLoginRedirectURL: cfg.Auth.Google.PostLoginRedirectURL,
	}
}

// providePostgresPool returns nil when no DSN is configured or the database is unreachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, func() {}
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, func() {}
	}
	logger.Info("postgres enabled")
	return pool, pool.Close
}

// provideValkeyClient returns nil when valkey is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	if !cfg.Valkey.Enabled {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil, func() {}
	}
	logger.Info("valkey enabled", "addr", cfg.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideCatalogRepository(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) catalog.Repository {
	if pool == nil {
		return catalogrepo.NewMemoryRepository()
	}
	repo := catalogrepo.NewPostgresRepository(pool)
	if cfg.Postgres.SeedCatalog {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Seed(ctx, catalog.SeedProducts()); err != nil {
			logger.Error("catalog seed failed, using memory catalog", "error", err)
			return catalogrepo.NewMemoryRepository()
		}
	}
	return repo
}

// provideProfileStore prefers postgres, then valkey.
func provideProfileStore(cfg *config.Config, pool *pgxpool.Pool, client valkey.Client) preferences.ProfileStore {
	switch {
	case pool != nil:
		return profilerepo.NewPostgresStore(pool)
	case client != nil:
		return profilerepo.NewValkeyStore(client, cfg.Valkey.Prefix)
	default:
		return profilerepo.NewMemoryStore()
	}
}

// provideCartStore prefers valkey, then postgres.
func provideCartStore(cfg *config.Config, pool *pgxpool.Pool, client valkey.Client) cart.Store {
	switch {
	case client != nil:
		return cartrepo.NewValkeyStore(client, cfg.Valkey.Prefix)
	case pool != nil:
		return cartrepo.NewPostgresStore(pool)
	default:
		return cartrepo.NewMemoryStore()
	}
}

func provideActivityRepository(pool *pgxpool.Pool) activity.Repository {
	if pool == nil {
		return activityrepo.NewMemoryRepository()
	}
	return activityrepo.NewPostgresRepository(pool)
}

func provideActivityQueue(cfg *config.Config, client valkey.Client, repo activity.Repository, logger *slog.Logger) activityQueue {
	if cfg.Activity.Queue == config.QueueValkey && client != nil {
		logger.Info("activity valkey queue enabled")
		return activityqueue.NewValkeyQueue(client, cfg.Activity.QueueKey, repo, logger)
	}
	return activityqueue.NewImmediatePublisher(repo)
}

func provideActivityPublisher(queue activityQueue) activity.Publisher {
	return queue
}

func provideActivityConsumer(queue activityQueue) bootstrap.Runner {
	return queue
}

func provideSessionLogger(svc activity.Service) skintone.SessionLogger {
	return svc
}

func provideActivityLogger(svc activity.Service) appstate.ActivityLogger {
	return svc
}

func provideProfileService(svc preferences.Service) auth.ProfileService {
	return svc
}

func provideSnapshotStore(cfg *config.Config, logger *slog.Logger) skintone.SnapshotStore {
	if !cfg.Storage.Enabled {
		return objectstore.NewMemoryStore()
	}
	store, err := objectstore.NewMinioStore(objectstore.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
	}, logger)
	if err != nil {
		logger.Error("object storage unavailable, keeping snapshots in memory", "error", err)
		return objectstore.NewMemoryStore()
	}
	return store
}

func provideCamera(cfg *config.Config, logger *slog.Logger) skintone.Camera {
	switch cfg.Capture.Driver {
	case config.DriverFFmpeg:
		return camera.NewFFmpegCamera(camera.FFmpegConfig{
			Device:      cfg.Capture.Device,
			InputFormat: cfg.Capture.InputFormat,
			Width:       cfg.Capture.Width,
			Height:      cfg.Capture.Height,
		}, logger)
	case config.DriverStill:
		still, err := camera.OpenStillCamera(cfg.Capture.StillPath)
		if err != nil {
			logger.Error("still image unavailable, camera disabled", "path", cfg.Capture.StillPath, "error", err)
			return camera.Unavailable{}
		}
		return still
	default:
		return camera.Unavailable{}
	}
}
