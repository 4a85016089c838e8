package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maisoncms/backend/internal/config"
	"github.com/maisoncms/backend/internal/handler"
	"github.com/maisoncms/backend/internal/logger"
	"github.com/maisoncms/backend/internal/storage"
)

// Setup configures the Gin engine with the public and admin routes.
func Setup(gdb *gorm.DB, store storage.ObjectStore, cfg *config.AppConfig, log *logger.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) == 1 && cfg.CORSAllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	api := handler.NewAPI(gdb, store, cfg, log)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/api")
	{
		public.GET("/gallery", api.PublicGallery)
		public.GET("/gallery/featured", api.FeaturedGallery)
		public.GET("/gallery/:id", api.GetGalleryImage)
		public.GET("/home", api.PublicHomeContent)
	}

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", handler.LoginRateLimit(cfg.LoginRatePerMinute, cfg.LoginBurst), api.Login)
		auth.POST("/refresh", api.Refresh)
	}

	admin := r.Group("/api/admin")
	admin.Use(api.AuthRequired())
	{
		admin.GET("/me", api.Me)
		admin.POST("/password", api.ChangePassword)

		admin.POST("/gallery", api.UploadGalleryImage)
		admin.GET("/gallery", api.ListGalleryImages)
		admin.GET("/gallery/:id", api.GetGalleryImage)
		admin.PUT("/gallery/:id", api.UpdateGalleryImage)
		admin.DELETE("/gallery/:id", api.DeleteGalleryImage)
		admin.PUT("/gallery/reorder", api.ReorderGalleryImages)

		admin.GET("/home", api.ListHomeContent)
		admin.POST("/home", api.CreateHomeContent)
		admin.GET("/home/:key", api.GetHomeContent)
		admin.PUT("/home/:key", api.UpdateHomeContent)
		admin.PUT("/home/:key/toggle", api.ToggleHomeContent)
		admin.DELETE("/home/:key", api.DeleteHomeContent)
	}

	return r
}
