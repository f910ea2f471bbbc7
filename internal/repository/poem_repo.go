package repository

import (
	"fmt"

	"hyakuninquiz/internal/database"
	"hyakuninquiz/internal/models"
)

// PoemRepository handles poem database operations
type PoemRepository struct {
	db database.DBTX
}

// NewPoemRepository creates a new poem repository
func NewPoemRepository(db database.DBTX) *PoemRepository {
	return &PoemRepository{db: db}
}

const poemColumns = `id, author, upper_verse, lower_verse, reading_upper, reading_lower, description`

// ListPoems retrieves every poem ordered by id
func (r *PoemRepository) ListPoems() ([]models.Poem, error) {
	rows, err := r.db.Query(`SELECT ` + poemColumns + ` FROM poems ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list poems: %w", err)
	}
	defer rows.Close()

	var poems []models.Poem
	for rows.Next() {
		var p models.Poem
		if err := scanPoem(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan poem: %w", err)
		}
		poems = append(poems, p)
	}

	return poems, rows.Err()
}

// UpsertPoem inserts a poem or replaces the row with the same id
func (r *PoemRepository) UpsertPoem(p models.Poem) error {
	_, err := r.db.Exec(r.db.GetDialect().UpsertPoemQuery(),
		p.ID, p.Author, p.Upper, p.Lower, p.ReadingUpper, p.ReadingLower, p.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert poem %d: %w", p.ID, err)
	}
	return nil
}

// DeleteAll removes every poem and returns how many rows were deleted
func (r *PoemRepository) DeleteAll() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM poems`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear poems: %w", err)
	}
	return result.RowsAffected()
}

// CountPoems returns the number of stored poems
func (r *PoemRepository) CountPoems() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM poems`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count poems: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPoem(s scanner, p *models.Poem) error {
	return s.Scan(
		&p.ID,
		&p.Author,
		&p.Upper,
		&p.Lower,
		&p.ReadingUpper,
		&p.ReadingLower,
		&p.Description,
	)
}
