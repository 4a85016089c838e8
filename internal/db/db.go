package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the shared database handle.
var DB *gorm.DB

// Init opens the database for the given driver and runs auto-migration for
// the core models. driver is "sqlite" or "postgres"; an empty sqlite DSN
// falls back to maisoncms.db.
func Init(driver, dsn string) error {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate creates or updates the tables for the core models.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Admin{},
		&GalleryImage{},
		&ImageVariant{},
		&HomeContent{},
	)
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		path := strings.TrimSpace(dsn)
		if path == "" {
			path = "maisoncms.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return sqlite.Open(path), nil
	case "postgres":
		if strings.TrimSpace(dsn) == "" {
			return nil, errors.New("postgres driver requires DATABASE_DSN")
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
