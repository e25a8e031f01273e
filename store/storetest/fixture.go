// Package storetest writes sqlite fixtures in the docs schema.
package storetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/maastricht-university/alr-timing/store"
)

// Text is shorthand for a non-NULL column value.
func Text(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

// Write creates a fresh database under t.TempDir holding docs and returns its
// path.
func Write(t testing.TB, docs ...store.Doc) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alr.db")
	db := open(t, path)
	if err := db.AutoMigrate(&store.Doc{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for i := range docs {
		if err := db.Create(&docs[i]).Error; err != nil {
			t.Fatalf("insert doc %d: %v", docs[i].ID, err)
		}
	}
	closeDB(t, db)
	return path
}

// WriteRaw creates a database by running the given statements, for schemas
// that differ from store.Doc.
func WriteRaw(t testing.TB, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alr.db")
	db := open(t, path)
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	closeDB(t, db)
	return path
}

func open(t testing.TB, path string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	return db
}

func closeDB(t testing.TB, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("fixture db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
}
