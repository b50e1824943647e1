package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `backend:
  http:
    port: 8080
  db:
    driver: sqlite
    path: /tmp/blog.db
  jwt:
    secret: file-secret
  redis:
    ttl: 30s
  log:
    level: debug
  bootstrap:
    admin_email: root@x.com
    admin_password: rootpw
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 8080 || cfg.DB.Driver != "sqlite" || cfg.DB.Path != "/tmp/blog.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.JWT.Secret != "file-secret" || cfg.JWT.Issuer != "blog-cms" {
		t.Fatalf("unexpected jwt config: %+v", cfg.JWT)
	}
	if cfg.Redis.TTL != 30*time.Second || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected redis/log config: %+v %+v", cfg.Redis, cfg.Log)
	}
	if cfg.Bootstrap.AdminEmail != "root@x.com" || cfg.Bootstrap.AdminName != "admin" {
		t.Fatalf("unexpected bootstrap: %+v", cfg.Bootstrap)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 5000 || cfg.DB.Driver != "mysql" || cfg.DB.Name != "blog_cms" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.Secret != DevSecret {
		t.Fatalf("expected dev secret fallback, got %q", cfg.JWT.Secret)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("REDIS_ADDR", "cache:6379")
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9000 || cfg.DB.Host != "db.internal" || cfg.DB.Pass != "s3cret" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.JWT.Secret != "env-secret" || cfg.Redis.Addr != "cache:6379" {
		t.Fatalf("env not applied: %+v %+v", cfg.JWT, cfg.Redis)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	if _, err := Load(writeConfig(t, "backend:\n  db:\n    driver: oracle\n")); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed PORT")
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeConfig(t, sample)
	changed := make(chan *Config, 4)
	err := Watch(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, func(err error) { t.Logf("reload: %v", err) })
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	updated := []byte("backend:\n  db:\n    driver: sqlite\n  log:\n    level: warn\n")
	if err := os.WriteFile(path, updated, 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Log.Level == "warn" {
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}
