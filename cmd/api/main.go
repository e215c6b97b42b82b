package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GermanFOSSIL/precom-planner-backend/config"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/bootstrap"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/backup"
	cronjob "github.com/GermanFOSSIL/precom-planner-backend/internal/precom/cron"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/storage/postgres"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/storage/rediscache"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	logger, err := newLogger(cfg.App.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	st := store.New()

	deps := bootstrap.RouterDeps{
		ServiceName:    "precom-planner-backend",
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Store:          st,
		Logger:         logger,
	}

	var persisters []backup.Persister

	if cfg.Database.Enabled() {
		pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		deps.DB = pool

		snapStore := postgres.NewSnapshotStore(pool)
		persisters = append(persisters, snapStore)

		snap, err := snapStore.LoadSnapshot(ctx)
		if err != nil {
			log.Fatalf("load snapshot: %v", err)
		}
		st.Replace(snap)
		logger.Info("snapshot loaded from database",
			zap.Int("projects", len(snap.Projects)),
			zap.Int("activities", len(snap.Activities)),
			zap.Int("itrbs", len(snap.ITRs)),
		)

		authDB, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			log.Fatalf("auth database: %v", err)
		}
		defer authDB.Close()
		deps.AuthDB = authDB
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		deps.Cache = client

		cache := rediscache.New(client)
		persisters = append(persisters, cache)

		// Fallback path: no database, warm the store from the cache.
		if deps.DB == nil {
			snap, err := cache.LoadSnapshot(ctx)
			if err != nil {
				logger.Warn("cache load failed", zap.Error(err))
			} else {
				st.Replace(snap)
			}
		}
	}

	deps.Persisters = persisters
	deps.Importer = backup.NewImporter(st, logger, persisters...)

	scheduler := cronjob.NewScheduler(st, cfg.Backup.Dir, cfg.Backup.Cron, logger)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("backup scheduler: %v", err)
	}
	defer scheduler.Stop()

	r := bootstrap.BuildRouter(deps)
	logger.Info("listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
