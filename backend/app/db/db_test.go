package db

import (
	"path/filepath"
	"testing"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	gdb, err := Connect(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "cms.db")})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, table := range []string{"users", "categories", "tags", "posts"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
	if !gdb.Migrator().HasColumn("users", "password") {
		t.Fatalf("users.password column missing")
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	if _, err := Connect(Config{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := Connect(Config{Driver: DriverSQLite}); err == nil {
		t.Fatalf("expected error for sqlite without path")
	}
}
