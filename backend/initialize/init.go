package initialize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"blog-cms/backend/app/cache"
	"blog-cms/backend/app/controllers"
	"blog-cms/backend/app/db"
	jwtutil "blog-cms/backend/app/jwt"
	"blog-cms/backend/app/middleware"
	"blog-cms/backend/app/password"
	"blog-cms/backend/app/repo"
	"blog-cms/backend/app/services"
	"blog-cms/backend/config"
	"blog-cms/backend/global"
	"blog-cms/backend/router"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type App struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router http.Handler
	Users  *services.UserService
}

// connectDB opens the store. Tests replace it to observe the handle.
var connectDB = db.Connect

// Build wires the application. On failure every connection opened so far
// is closed before the error is returned.
func Build(ctx context.Context, configPath string) (_ *App, err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	SetupLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if cfg.JWT.Secret == config.DevSecret {
		global.Logger.Warn().Msg("no jwt secret configured, using the development secret")
	}
	watchLogLevel(configPath)

	gdb, err := connectDB(db.Config{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Pass,
		DBName:   cfg.DB.Name,
		Path:     cfg.DB.Path,
		LogSQL:   cfg.DB.LogSQL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	app := &App{Cfg: cfg, DB: gdb}
	defer func() {
		if err != nil {
			if cerr := app.Close(); cerr != nil {
				global.Logger.Error().Err(cerr).Msg("close after failed init")
			}
		}
	}()

	if err = db.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var views cache.Views
	app.Redis, views = connectCache(ctx, cfg.Redis)

	userRepo := repo.NewUserRepository(gdb)
	categoryRepo := repo.NewCategoryRepository(gdb)
	tagRepo := repo.NewTagRepository(gdb)
	postRepo := repo.NewPostRepository(gdb)

	userSvc := services.NewUserService(userRepo, password.NewHasher(bcrypt.DefaultCost), views)
	categorySvc := services.NewCategoryService(categoryRepo, views)
	tagSvc := services.NewTagService(tagRepo, views)
	postSvc := services.NewPostService(postRepo, categoryRepo, tagRepo, views)

	if b := cfg.Bootstrap; b.AdminEmail != "" && b.AdminPassword != "" {
		var created bool
		created, err = userSvc.EnsureAdmin(ctx, b.AdminName, b.AdminEmail, b.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			global.Logger.Info().Str("email", b.AdminEmail).Msg("bootstrap admin created")
		}
	}

	signer := jwtutil.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)
	mw := &middleware.Auth{Signer: signer}
	h := router.NewRouter(router.Controllers{
		Auth:       controllers.NewAuthController(userSvc, signer),
		Users:      controllers.NewUserController(userSvc),
		Categories: controllers.NewCategoryController(categorySvc),
		Tags:       controllers.NewTagController(tagSvc),
		Posts:      controllers.NewPostController(postSvc),
	}, mw)
	// Wrap with logging middleware
	app.Router = middleware.Logging(h)
	app.Users = userSvc
	return app, nil
}

// Close releases the store and cache connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		} else {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// connectCache returns a Redis-backed view cache when an address is
// configured and reachable, and a no-op cache otherwise.
func connectCache(ctx context.Context, cfg config.Redis) (*redis.Client, cache.Views) {
	if cfg.Addr == "" {
		return nil, cache.Nop{}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		global.Logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unreachable, post view cache disabled")
		_ = rdb.Close()
		return nil, cache.Nop{}
	}
	global.Logger.Info().Str("addr", cfg.Addr).Msg("post view cache enabled")
	return rdb, cache.NewRedisViews(rdb, cfg.Prefix, cfg.TTL)
}

func watchLogLevel(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	err := config.Watch(path, func(c *config.Config) {
		SetLogLevel(c.Log.Level)
		global.Logger.Info().Str("level", c.Log.Level).Msg("config reloaded")
	}, func(err error) {
		global.Logger.Error().Err(err).Msg("config reload failed")
	})
	if err != nil {
		global.Logger.Warn().Err(err).Msg("config watch disabled")
	}
}
