package db

import (
	"path/filepath"
	"testing"

	"github.com/sgvr/sgvr/internal/models"
)

func TestMigrateCreatesSchema(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "migrate_test.db")
	conn, errOpen := Open(dsn)
	if errOpen != nil {
		t.Fatalf("open: %v", errOpen)
	}

	if !IsSQLite(conn) {
		t.Fatalf("expected sqlite dialect, got %s", DialectName(conn))
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	migrator := conn.Migrator()
	for _, model := range []any{&models.User{}, &models.Role{}, &models.RoleAssignment{}, &models.Document{}} {
		if !migrator.HasTable(model) {
			t.Fatalf("table for %T missing after migrate", model)
		}
	}
	if !migrator.HasColumn(&models.User{}, "api_token") {
		t.Fatalf("users.api_token missing after migrate")
	}
	if !migrator.HasColumn(&models.Document{}, "access_token") {
		t.Fatalf("documents.access_token missing after migrate")
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "repeat_test.db")
	conn, errOpen := Open(dsn)
	if errOpen != nil {
		t.Fatalf("open: %v", errOpen)
	}

	if errFirst := Migrate(conn); errFirst != nil {
		t.Fatalf("first migrate: %v", errFirst)
	}
	if errSecond := Migrate(conn); errSecond != nil {
		t.Fatalf("second migrate: %v", errSecond)
	}
}

func TestMigrateNilConnection(t *testing.T) {
	if errMigrate := Migrate(nil); errMigrate == nil {
		t.Fatalf("expected error for nil connection")
	}
}
