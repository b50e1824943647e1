package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DevSecret signs tokens when no secret is configured. Never use it outside
// local development.
const DevSecret = "dev-secret-change-me"

type HTTP struct {
	Host string
	Port int
}

type DB struct {
	Driver string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	Path   string
	LogSQL bool
}

type JWT struct {
	Secret string
	Issuer string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

type Log struct {
	Level  string
	Format string
}

type Bootstrap struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

type Config struct {
	HTTP      HTTP
	DB        DB
	JWT       JWT
	Redis     Redis
	Log       Log
	Bootstrap Bootstrap
}

// environment holds the deployment variables that win over the file.
type environment struct {
	Port       int    `env:"PORT"`
	DBHost     string `env:"DB_HOST"`
	DBPort     int    `env:"DB_PORT"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	JWTSecret  string `env:"JWT_SECRET_KEY"`
	RedisAddr  string `env:"REDIS_ADDR"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.http.host", "0.0.0.0")
	v.SetDefault("backend.http.port", 5000)
	v.SetDefault("backend.db.driver", "mysql")
	v.SetDefault("backend.db.host", "127.0.0.1")
	v.SetDefault("backend.db.port", 3306)
	v.SetDefault("backend.db.user", "root")
	v.SetDefault("backend.db.pass", "")
	v.SetDefault("backend.db.name", "blog_cms")
	v.SetDefault("backend.db.path", "blog.db")
	v.SetDefault("backend.jwt.issuer", "blog-cms")
	v.SetDefault("backend.redis.db", 0)
	v.SetDefault("backend.redis.prefix", "blog:")
	v.SetDefault("backend.redis.ttl", "5m")
	v.SetDefault("backend.log.level", "info")
	v.SetDefault("backend.log.format", "console")
	v.SetDefault("backend.bootstrap.admin_name", "admin")
}

// Load reads path, which may be absent, and applies environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if _, err := os.Stat(path); err == nil {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	cfg := fromViper(v)
	var e environment
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	e.apply(cfg)

	switch cfg.DB.Driver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = DevSecret
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{Host: v.GetString("backend.http.host"), Port: v.GetInt("backend.http.port")},
		DB: DB{
			Driver: v.GetString("backend.db.driver"),
			Host:   v.GetString("backend.db.host"),
			Port:   v.GetInt("backend.db.port"),
			User:   v.GetString("backend.db.user"),
			Pass:   v.GetString("backend.db.pass"),
			Name:   v.GetString("backend.db.name"),
			Path:   v.GetString("backend.db.path"),
			LogSQL: v.GetBool("backend.db.log_sql"),
		},
		JWT: JWT{Secret: v.GetString("backend.jwt.secret"), Issuer: v.GetString("backend.jwt.issuer")},
		Redis: Redis{
			Addr:     v.GetString("backend.redis.addr"),
			Password: v.GetString("backend.redis.password"),
			DB:       v.GetInt("backend.redis.db"),
			Prefix:   v.GetString("backend.redis.prefix"),
			TTL:      v.GetDuration("backend.redis.ttl"),
		},
		Log: Log{Level: v.GetString("backend.log.level"), Format: v.GetString("backend.log.format")},
		Bootstrap: Bootstrap{
			AdminName:     v.GetString("backend.bootstrap.admin_name"),
			AdminEmail:    v.GetString("backend.bootstrap.admin_email"),
			AdminPassword: v.GetString("backend.bootstrap.admin_password"),
		},
	}
}

func (e environment) apply(cfg *Config) {
	if e.Port != 0 {
		cfg.HTTP.Port = e.Port
	}
	if e.DBHost != "" {
		cfg.DB.Host = e.DBHost
	}
	if e.DBPort != 0 {
		cfg.DB.Port = e.DBPort
	}
	if e.DBUser != "" {
		cfg.DB.User = e.DBUser
	}
	if e.DBPassword != "" {
		cfg.DB.Pass = e.DBPassword
	}
	if e.DBName != "" {
		cfg.DB.Name = e.DBName
	}
	if e.JWTSecret != "" {
		cfg.JWT.Secret = e.JWTSecret
	}
	if e.RedisAddr != "" {
		cfg.Redis.Addr = e.RedisAddr
	}
}

// Watch calls onChange with a freshly loaded Config each time the file at
// path is written. Reload errors go to onError and the previous config stays
// in effect.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(path)
		if err != nil {
			onError(err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
