package repository

import (
	"path/filepath"
	"testing"

	"hyakuninquiz/internal/database"
	"hyakuninquiz/internal/testutil"
	"hyakuninquiz/migrations"
)

func newTestRepo(t *testing.T) (*PoemRepository, *database.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "poems.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return NewPoemRepository(db), db
}

func TestPoemRepositoryRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	poems := testutil.Poems(3)
	for i := len(poems) - 1; i >= 0; i-- {
		if err := repo.UpsertPoem(poems[i]); err != nil {
			t.Fatalf("UpsertPoem() error = %v", err)
		}
	}

	got, err := repo.ListPoems()
	if err != nil {
		t.Fatalf("ListPoems() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListPoems() returned %d poems, want 3", len(got))
	}
	for i, p := range got {
		if p != poems[i] {
			t.Errorf("poem %d = %+v, want %+v", i, p, poems[i])
		}
	}

	count, err := repo.CountPoems()
	if err != nil || count != 3 {
		t.Errorf("CountPoems() = %d, %v; want 3, nil", count, err)
	}
}

func TestPoemRepositoryInTransaction(t *testing.T) {
	repo, db := newTestRepo(t)
	if err := repo.UpsertPoem(testutil.Poem(1, "a")); err != nil {
		t.Fatalf("UpsertPoem() error = %v", err)
	}

	err := db.WithTx(func(tx *database.Tx) error {
		txRepo := NewPoemRepository(tx)
		deleted, err := txRepo.DeleteAll()
		if err != nil {
			return err
		}
		if deleted != 1 {
			t.Errorf("DeleteAll() = %d, want 1", deleted)
		}
		return txRepo.UpsertPoem(testutil.Poem(2, "b"))
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	got, err := repo.ListPoems()
	if err != nil {
		t.Fatalf("ListPoems() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("ListPoems() = %+v, want only poem 2", got)
	}
}
