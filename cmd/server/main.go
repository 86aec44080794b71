package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/oggyb/vidrec/internal/app"
	"github.com/oggyb/vidrec/internal/cache"
	"github.com/oggyb/vidrec/internal/config"
	"github.com/oggyb/vidrec/internal/db"
	"github.com/oggyb/vidrec/internal/logger"
	"github.com/oggyb/vidrec/internal/server"
	"github.com/oggyb/vidrec/internal/service/recommender"
	"github.com/oggyb/vidrec/internal/service/user"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	appCtx := app.New(database, redisCache, log)
	appCtx.FollowerTTL = cfg.Cache.FollowerTTL

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database, time.Now().UnixNano()); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	registrars := []server.Registrar{
		user.NewRegistrar(appCtx),
		recommender.NewRegistrar(appCtx),
	}

	admin := server.NewAdminRouter(map[string]server.HealthCheck{
		"db":    func(ctx context.Context) error { return db.Ping(ctx, database) },
		"redis": redisCache.Ping,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.StartGRPCServer(ctx, cfg.GRPCAddr(), log, registrars...)
	})
	g.Go(func() error {
		return server.StartAdminServer(ctx, cfg.Admin.Addr, admin, log)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		closeDB(database)
		os.Exit(1)
	}
	closeDB(database)
	log.Info("shutdown complete")
}

func closeDB(database *gorm.DB) {
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
