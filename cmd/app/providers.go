package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/config"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/poolrepo"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/readingcache"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/recorder"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/reportstore"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/scheduler"
	"github.com/AlexHuggler/LCI-tracker/pkg/logger"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

func providePoolConfig(cfg *config.Config) pool.Config {
	return pool.Config{
		DefaultVolumeGallons: cfg.Dosing.DefaultVolumeGallons,
		DefaultTDS:           cfg.Dosing.DefaultTDS,
		BillingPeriodDays:    cfg.Dosing.BillingPeriodDays,
	}
}

func providePoolStore(cfg *config.Config, logger *slog.Logger) (poolrepo.Store, func()) {
	noop := func() {}
	fallback := poolrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repository")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback, noop
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pgPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pgPool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pgPool.Close()
		return fallback, noop
	}
	repo := poolrepo.NewPostgresRepository(pgPool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory repository", "error", err)
		pgPool.Close()
		return fallback, noop
	}
	logger.Info("postgres pool repository enabled")
	return repo, pgPool.Close
}

func provideRepository(store poolrepo.Store) pool.Repository {
	return store
}

func provideInventoryRepository(store poolrepo.Store) pool.InventoryRepository {
	return store
}

func provideReadingCache(cfg *config.Config, logger *slog.Logger) (pool.ReadingCache, func()) {
	noop := func() {}
	if !cfg.Valkey.Enabled {
		return readingcache.NewMemoryCache(cfg.Valkey.TTL), noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return readingcache.NewMemoryCache(cfg.Valkey.TTL), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return readingcache.NewMemoryCache(cfg.Valkey.TTL), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return readingcache.NewMemoryCache(cfg.Valkey.TTL), noop
	}
	logger.Info("valkey reading cache enabled", "addr", cfg.Valkey.Addr)
	return readingcache.NewValkeyCache(client, "lci", cfg.Valkey.TTL), client.Close
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

func provideRecorder(cfg *config.Config, logger *slog.Logger) (pool.Recorder, func()) {
	path := strings.TrimSpace(cfg.SQLite.Path)
	if path == "" {
		logger.Info("sqlite path not set, calculation history disabled")
		return recorder.NoopRecorder{}, func() {}
	}
	rec, err := recorder.NewSQLiteRecorder(path, logger)
	if err != nil {
		logger.Error("failed to open sqlite recorder, calculation history disabled", "error", err)
		return recorder.NoopRecorder{}, func() {}
	}
	logger.Info("sqlite recorder enabled", "path", path)
	return rec, func() {
		if err := rec.Close(); err != nil {
			logger.Warn("close sqlite recorder", "error", err)
		}
	}
}

func provideReportStorage(cfg *config.Config, logger *slog.Logger) reportstore.ObjectStorage {
	archive := cfg.Reports.Archive
	if strings.TrimSpace(archive.Endpoint) == "" {
		logger.Info("report archive endpoint not set, keeping reports in memory")
		return reportstore.NewMemoryStorage()
	}
	storage, err := reportstore.NewS3Storage(archive.Endpoint, archive.AccessKey, archive.SecretKey, archive.Bucket, archive.Region, logger)
	if err != nil {
		logger.Error("failed to init report archive, keeping reports in memory", "error", err)
		return reportstore.NewMemoryStorage()
	}
	logger.Info("s3 report archive enabled", "bucket", archive.Bucket)
	return storage
}

func provideReportArchive(cfg *config.Config, storage reportstore.ObjectStorage) *reportstore.Archive {
	return reportstore.NewArchive(storage, cfg.Reports.Archive.Prefix)
}

func provideScheduler(cfg *config.Config, svc pool.Service, archive *reportstore.Archive, logger *slog.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(svc, archive, cfg.Dosing.BillingPeriodDays, logger)
	if !cfg.Reports.Enabled {
		return sched, nil
	}
	if err := sched.Register(cfg.Reports.Cron); err != nil {
		return nil, err
	}
	return sched, nil
}
