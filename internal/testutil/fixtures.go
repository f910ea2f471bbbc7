// Package testutil provides poem fixtures and file helpers shared by tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"hyakuninquiz/internal/models"
)

// Poem builds a poem whose text fields are derived from id and author
func Poem(id int64, author string) models.Poem {
	return models.Poem{
		ID:           id,
		Author:       author,
		Upper:        fmt.Sprintf("upper verse %d", id),
		Lower:        fmt.Sprintf("lower verse %d", id),
		ReadingUpper: fmt.Sprintf("reading upper %d", id),
		ReadingLower: fmt.Sprintf("reading lower %d", id),
		Description:  fmt.Sprintf("description %d", id),
	}
}

// Poems builds n poems with ids 1..n and one distinct author each
func Poems(n int) []models.Poem {
	poems := make([]models.Poem, 0, n)
	for i := 1; i <= n; i++ {
		poems = append(poems, Poem(int64(i), fmt.Sprintf("author %d", i)))
	}
	return poems
}

// PoemsByAuthors builds one poem per entry; ids start at 1
func PoemsByAuthors(authors ...string) []models.Poem {
	poems := make([]models.Poem, 0, len(authors))
	for i, a := range authors {
		poems = append(poems, Poem(int64(i+1), a))
	}
	return poems
}

// Rand returns a deterministic random source for the given seed
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// WriteFile writes content into a file inside a fresh temp dir and returns its path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// WriteCorpusJSON marshals poems into a JSON corpus file and returns its path
func WriteCorpusJSON(t *testing.T, poems []models.Poem) string {
	t.Helper()
	data, err := json.MarshalIndent(poems, "", "  ")
	if err != nil {
		t.Fatalf("marshalling corpus: %v", err)
	}
	return WriteFile(t, "corpus.json", string(data))
}
