package database

import (
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrateUpAndDown(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = CloseDB(db) })

	n, err := Migrate(db, "sqlite3", migrate.Up)
	if err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied %d migrations, want 1", n)
	}

	for _, table := range []string{"users", "projects"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("table %s missing after up", table)
		}
	}

	if err := db.Exec(`INSERT INTO users (id, email, name, credits) VALUES ('u1', 'a@b.c', 'A', -1)`).Error; err == nil {
		t.Fatalf("negative credit balance accepted")
	}

	if _, err := Migrate(db, "sqlite3", migrate.Down); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if db.Migrator().HasTable("projects") {
		t.Fatalf("projects still present after down")
	}
}
