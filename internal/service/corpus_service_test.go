package service

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyakuninquiz/internal/config"
	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/database"
	"hyakuninquiz/internal/testutil"
	"hyakuninquiz/migrations"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	db, err := database.Initialize(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.RunMigrations(migrations.FS)
	require.NoError(t, err)
	return db
}

func TestLoadFromFile(t *testing.T) {
	path := testutil.WriteCorpusJSON(t, testutil.Poems(6))
	s := NewCorpusService(nil, nil)

	c, err := s.Load(LoadOptions{Source: config.CorpusSourceFile, Path: path})
	require.NoError(t, err)
	assert.Equal(t, 6, c.Len())
}

func TestLoadFallsBackToSample(t *testing.T) {
	s := NewCorpusService(nil, nil)
	missing := filepath.Join(t.TempDir(), "missing.json")

	c, err := s.Load(LoadOptions{Source: config.CorpusSourceFile, Path: missing, Fallback: true})
	require.NoError(t, err)
	assert.Equal(t, len(corpus.Fallback()), c.Len())

	malformed := testutil.WriteFile(t, "bad.json", `[{"id": 1`)
	c, err = s.Load(LoadOptions{Path: malformed, Fallback: true})
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
}

func TestLoadWithoutFallbackFails(t *testing.T) {
	s := NewCorpusService(nil, nil)
	_, err := s.Load(LoadOptions{Path: filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorIs(t, err, corpus.ErrCorpusLoad)

	_, err = s.Load(LoadOptions{Source: "s3"})
	assert.Error(t, err)

	_, err = s.Load(LoadOptions{Source: config.CorpusSourceDatabase})
	assert.ErrorIs(t, err, ErrNoDatabase)
}

func TestImportThenLoadFromDatabase(t *testing.T) {
	db := openTestDB(t)
	s := NewCorpusService(db, nil)

	_, err := s.Load(LoadOptions{Source: config.CorpusSourceDatabase})
	assert.ErrorIs(t, err, corpus.ErrInvalidCorpus, "an empty table is not a usable corpus")
	assert.ErrorContains(t, err, "poems table is empty")

	path := testutil.WriteCorpusJSON(t, testutil.Poems(5))
	res, err := s.Import(path, false)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Imported)
	assert.Zero(t, res.Deleted)

	c, err := s.Load(LoadOptions{Source: config.CorpusSourceDatabase})
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, res.Fingerprint, c.Fingerprint())
}

func TestImportClear(t *testing.T) {
	db := openTestDB(t)
	s := NewCorpusService(db, nil)

	_, err := s.Import(testutil.WriteCorpusJSON(t, testutil.Poems(6)), false)
	require.NoError(t, err)

	res, err := s.Import(testutil.WriteCorpusJSON(t, testutil.Poems(4)), true)
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Deleted)
	assert.Equal(t, 4, res.Imported)
}

func TestImportRejectsInvalidFile(t *testing.T) {
	db := openTestDB(t)
	s := NewCorpusService(db, nil)

	dup := testutil.Poems(2)
	dup[1].ID = 1
	_, err := s.Import(testutil.WriteCorpusJSON(t, dup), true)
	assert.ErrorIs(t, err, corpus.ErrInvalidCorpus)
}

func TestExportRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := NewCorpusService(db, nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	poems := testutil.Poems(4)
	_, err := s.Import(testutil.WriteCorpusJSON(t, poems), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	export, err := s.Export(&buf)
	require.NoError(t, err)
	assert.Equal(t, ExportVersion, export.Version)
	assert.Equal(t, corpus.Fingerprint(poems), export.Fingerprint)

	var decoded CorpusExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, poems, decoded.Poems)
	assert.True(t, decoded.ExportedAt.Equal(s.now()))

	// an export document can be imported again
	out := filepath.Join(t.TempDir(), "export.json")
	_, err = s.ExportFile(out)
	require.NoError(t, err)
	_, err = os.Stat(out)
	require.NoError(t, err)

	res, err := s.Import(out, true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Imported)
}
