package db

import (
	"fmt"
	"os"
	"path/filepath"

	"blog-cms/backend/app/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Path     string
	LogSQL   bool
}

func Connect(cfg Config) (*gorm.DB, error) {
	dialector, err := dialect(cfg)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{TranslateError: true}
	if !cfg.LogSQL {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	return gorm.Open(dialector, gcfg)
}

func dialect(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
		return mysql.Open(dsn), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite driver requires a path")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, err
		}
		return sqlite.Open(cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// Migrate creates or updates the users, categories, tags and posts tables
// together with their unique indexes and foreign keys.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.User{}, &models.Category{}, &models.Tag{}, &models.Post{})
}
