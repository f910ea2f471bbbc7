package database

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()
	
	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})
	
	
	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()
	
	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})
	
	
	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()
	
	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})
	
	
	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM poems WHERE id = ?",
			expected: "SELECT * FROM poems WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM poems WHERE id = ?",
			expected: "SELECT * FROM poems WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO poems (id, author) VALUES (?, ?)",
			expected: "INSERT INTO poems (id, author) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE poems SET author = ?, description = ? WHERE id = ?",
			expected: "UPDATE poems SET author = ?, description = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dbType  string
		driver  string
		wantErr bool
	}{
		{"", "sqlite3", false},
		{"sqlite", "sqlite3", false},
		{"PostgreSQL", "postgres", false},
		{"mysql", "mysql", false},
		{"oracle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			dialect, _, err := DialectFor(tt.dbType, "quiz.db", "postgres://localhost/quiz")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DialectFor(%q) expected error", tt.dbType)
				}
				return
			}
			if err != nil {
				t.Fatalf("DialectFor(%q) unexpected error: %v", tt.dbType, err)
			}
			if dialect.DriverName() != tt.driver {
				t.Errorf("DriverName() = %v, want %v", dialect.DriverName(), tt.driver)
			}
		})
	}
}

func TestUpsertPoemQueryPlaceholders(t *testing.T) {
	for _, dialect := range []Dialect{NewSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		query := dialect.UpsertPoemQuery()
		if got := strings.Count(query, "?"); got != 7 {
			t.Errorf("%s: UpsertPoemQuery has %d placeholders, want 7", dialect.DriverName(), got)
		}
	}

	rewritten := NewPostgresDialect().RewriteQuery(NewPostgresDialect().UpsertPoemQuery())
	if !strings.Contains(rewritten, "$7") || strings.Contains(rewritten, "?") {
		t.Errorf("postgres upsert not rewritten: %s", rewritten)
	}
}

func TestMigrationSource(t *testing.T) {
	for _, dir := range []string{"sqlite", "postgres", "mysql"} {
		matches, err := fs.Glob(MigrationSource(""), dir+"/*.sql")
		if err != nil || len(matches) == 0 {
			t.Errorf("embedded migrations missing for %s: %v", dir, err)
		}
	}

	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "sqlite"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "sqlite", "001_x.sql"), []byte("SELECT 1;"), 0644); err != nil {
		t.Fatal(err)
	}
	matches, _ := fs.Glob(MigrationSource(tmp), "sqlite/*.sql")
	if len(matches) != 1 {
		t.Errorf("expected directory source to list 1 file, got %v", matches)
	}
}
