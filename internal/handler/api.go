package handler

import (
	"gorm.io/gorm"

	"github.com/maisoncms/backend/internal/config"
	"github.com/maisoncms/backend/internal/logger"
	"github.com/maisoncms/backend/internal/service"
	"github.com/maisoncms/backend/internal/storage"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	gallery *service.GalleryService
	home    *service.HomeService
	auth    *service.AuthService
	log     *logger.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store storage.ObjectStore, cfg *config.AppConfig, log *logger.Logger) *API {
	return &API{
		gallery: service.NewGalleryService(gdb, store, log, cfg.MaxUploadBytes),
		home:    service.NewHomeService(gdb),
		auth: service.NewAuthService(gdb,
			cfg.JWTSecret, cfg.JWTRefreshSecret,
			cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		log: log,
	}
}
