package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"hyakuninquiz/internal/config"
	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/database"
	"hyakuninquiz/internal/logging"
	"hyakuninquiz/internal/models"
	"hyakuninquiz/internal/repository"
)

// ExportVersion is written into every corpus export
const ExportVersion = "1.0"

// ErrNoDatabase is returned by operations that need a database when none was configured
var ErrNoDatabase = errors.New("no database configured")

// CorpusExport is the document written by Export
type CorpusExport struct {
	Version     string        `json:"version"`
	ExportedAt  time.Time     `json:"exported_at"`
	Fingerprint string        `json:"fingerprint"`
	Poems       []models.Poem `json:"poems"`
}

// ImportResult summarises an Import run
type ImportResult struct {
	Imported    int
	Deleted     int64
	Fingerprint string
}

// LoadOptions selects where the corpus comes from
type LoadOptions struct {
	Source   string // config.CorpusSourceFile or config.CorpusSourceDatabase
	Path     string
	Fallback bool
}

// LoadOptionsFromConfig builds LoadOptions from the application config
func LoadOptionsFromConfig(cfg *config.Config) LoadOptions {
	return LoadOptions{Source: cfg.CorpusSource, Path: cfg.CorpusPath, Fallback: cfg.CorpusFallback}
}

// CorpusService loads the poem corpus and moves it between files and the database
type CorpusService struct {
	db     *database.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewCorpusService creates a new corpus service. db may be nil when only
// file sources are used.
func NewCorpusService(db *database.DB, logger *zap.Logger) *CorpusService {
	return &CorpusService{db: db, logger: logging.OrNop(logger), now: time.Now}
}

// Load builds the corpus from the configured source. A file that cannot be
// read or parsed is replaced by the built-in sample when opts.Fallback is set.
func (s *CorpusService) Load(opts LoadOptions) (*corpus.Corpus, error) {
	switch opts.Source {
	case config.CorpusSourceDatabase:
		return s.loadFromDatabase()
	case config.CorpusSourceFile, "":
		return s.loadFromFile(opts.Path, opts.Fallback)
	}
	return nil, fmt.Errorf("unknown corpus source %q", opts.Source)
}

func (s *CorpusService) loadFromFile(path string, fallback bool) (*corpus.Corpus, error) {
	c, err := corpus.Open(path)
	if err == nil {
		s.logger.Info("corpus loaded",
			zap.String("path", path),
			zap.Int("poems", c.Len()),
			zap.Int("authors", c.DistinctAuthors()),
			zap.String("fingerprint", c.Fingerprint()))
		return c, nil
	}
	if !fallback {
		return nil, err
	}

	s.logger.Warn("corpus file unusable, using built-in sample",
		zap.String("path", path),
		zap.Error(err))
	return corpus.New(corpus.Fallback())
}

func (s *CorpusService) loadFromDatabase() (*corpus.Corpus, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	repo := repository.NewPoemRepository(s.db)
	count, err := repo.CountPoems()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", corpus.ErrCorpusLoad, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: poems table is empty, import a corpus file first", corpus.ErrInvalidCorpus)
	}

	poems, err := repo.ListPoems()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", corpus.ErrCorpusLoad, err)
	}
	c, err := corpus.New(poems)
	if err != nil {
		return nil, err
	}
	s.logger.Info("corpus loaded from database",
		zap.Int("poems", c.Len()),
		zap.String("fingerprint", c.Fingerprint()))
	return c, nil
}

// Import validates a corpus file and upserts every poem in one transaction.
// With clear set the table is emptied first.
func (s *CorpusService) Import(path string, clear bool) (*ImportResult, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	c, err := corpus.Open(path)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Fingerprint: c.Fingerprint()}
	err = s.db.WithTx(func(tx *database.Tx) error {
		repo := repository.NewPoemRepository(tx)
		if clear {
			deleted, err := repo.DeleteAll()
			if err != nil {
				return err
			}
			result.Deleted = deleted
		}
		for _, p := range c.Poems() {
			if err := repo.UpsertPoem(p); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import corpus: %w", err)
	}

	s.logger.Info("corpus imported",
		zap.String("path", path),
		zap.Int("imported", result.Imported),
		zap.Int64("deleted", result.Deleted))
	return result, nil
}

// Export writes every stored poem to w as an indented JSON document
func (s *CorpusService) Export(w io.Writer) (*CorpusExport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}

	poems, err := repository.NewPoemRepository(s.db).ListPoems()
	if err != nil {
		return nil, fmt.Errorf("failed to export poems: %w", err)
	}
	if poems == nil {
		poems = []models.Poem{}
	}

	export := &CorpusExport{
		Version:     ExportVersion,
		ExportedAt:  s.now().UTC(),
		Fingerprint: corpus.Fingerprint(poems),
		Poems:       poems,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(export); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return export, nil
}

// ExportFile writes the export document to outputPath
func (s *CorpusService) ExportFile(outputPath string) (*CorpusExport, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	export, err := s.Export(file)
	if err != nil {
		return nil, err
	}
	s.logger.Info("corpus exported",
		zap.String("path", outputPath),
		zap.Int("poems", len(export.Poems)))
	return export, nil
}
