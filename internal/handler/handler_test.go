package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maisoncms/backend/internal/config"
	"github.com/maisoncms/backend/internal/db"
	"github.com/maisoncms/backend/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is an in-memory object store for handler tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return "https://cdn.test/gallery/" + path, nil
}

func (m *memStore) Delete(_ context.Context, paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range paths {
		delete(m.objects, p)
	}
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		GinMode:          gin.TestMode,
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		MaxUploadBytes:   config.DefaultMaxUploadBytes,
	}
}

func setupTestAPI(t *testing.T) (*API, *gorm.DB, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.Admin{}, &db.GalleryImage{}, &db.ImageVariant{}, &db.HomeContent{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	api := NewAPI(gdb, newMemStore(), testConfig(), logger.NewNop())

	return api, gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedTestAdmin(t *testing.T, gdb *gorm.DB, email, password string) *db.Admin {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := db.Admin{Email: email, PasswordHash: string(hashed), Name: "Test Admin", Role: "admin", IsActive: true}
	if err := gdb.Create(&admin).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return &admin
}
