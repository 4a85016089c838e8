package main

import (
	"context"

	"github.com/maisoncms/backend/internal/config"
	"github.com/maisoncms/backend/internal/db"
	"github.com/maisoncms/backend/internal/logger"
	"github.com/maisoncms/backend/internal/router"
	"github.com/maisoncms/backend/internal/storage"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.GinMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}

	if err := db.EnsureAdmin(cfg.BootstrapAdminEmail, cfg.BootstrapAdminPass, cfg.BootstrapAdminName); err != nil {
		log.Fatal("failed to ensure admin account", "error", err)
	}

	store, err := storage.NewGCSStore(context.Background(), cfg.StorageBucket, cfg.StoragePublicBaseURL, log)
	if err != nil {
		log.Fatal("failed to initialize object storage", "error", err)
	}

	r := router.Setup(db.DB, store, &cfg, log)

	log.Info("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
