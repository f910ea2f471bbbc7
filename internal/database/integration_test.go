package database

import (
	"errors"
	"path/filepath"
	"testing"

	"hyakuninquiz/migrations"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	db := openTestDB(t)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	for _, table := range []string{"migrations", "poems"} {
		var name string
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}
}

func TestMigrationsRunOnce(t *testing.T) {
	db := openTestDB(t)

	applied, err := db.RunMigrations(migrations.FS)
	if err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("Expected no migrations on second run, got %v", applied)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	db := openTestDB(t)
	upsert := db.Dialect.UpsertPoemQuery()

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.Exec(upsert, 1, "天智天皇", "秋の田の", "わが衣手は", "あきのたの", "わがころもでは", "")
		return err
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM poems WHERE id = ?", 1).Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 poem, got %d", count)
	}

	rollbackErr := errors.New("abort")
	err = db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec(upsert, 2, "持統天皇", "春過ぎて", "衣ほすてふ", "はるすぎて", "ころもほすてふ", ""); err != nil {
			return err
		}
		return rollbackErr
	})
	if !errors.Is(err, rollbackErr) {
		t.Fatalf("Expected rollback error, got %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM poems WHERE id = ?", 2).Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 poems after rollback, got %d", count)
	}
}

func TestUpsertPoemUpdatesExistingRow(t *testing.T) {
	db := openTestDB(t)
	upsert := db.Dialect.UpsertPoemQuery()

	if _, err := db.Exec(upsert, 7, "old", "u", "l", "ru", "rl", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := db.Exec(upsert, 7, "new", "u", "l", "ru", "rl", "d"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	var author string
	if err := db.QueryRow("SELECT author FROM poems WHERE id = ?", 7).Scan(&author); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if author != "new" {
		t.Errorf("author = %q, want %q", author, "new")
	}
}
