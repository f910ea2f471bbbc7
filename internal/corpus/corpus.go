// Package corpus holds the immutable, validated collection of poems the quiz
// draws from, together with the loaders that produce it.
package corpus

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"

	"hyakuninquiz/internal/models"
)

var (
	// ErrCorpusLoad is returned when the corpus cannot be read or parsed
	ErrCorpusLoad = errors.New("corpus load failed")
	// ErrInvalidCorpus is returned when loaded data violates the record invariants
	ErrInvalidCorpus = errors.New("invalid corpus")
	// ErrEmptyCorpus is returned when sampling from a corpus without poems
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrPoemNotFound is returned by Lookup for an unknown id
	ErrPoemNotFound = errors.New("poem not found")
)

// Rand is the random source used for sampling. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Corpus is a read-only set of poems with lookup by id and random sampling.
// It is safe for concurrent use; callers must not modify returned poems.
type Corpus struct {
	poems   []models.Poem
	byID    map[int64]int
	authors int
}

// New validates poems and builds a Corpus from a private copy of them.
func New(poems []models.Poem) (*Corpus, error) {
	if len(poems) == 0 {
		return nil, fmt.Errorf("%w: no poems", ErrInvalidCorpus)
	}

	c := &Corpus{
		poems: make([]models.Poem, len(poems)),
		byID:  make(map[int64]int, len(poems)),
	}
	copy(c.poems, poems)

	authors := make(map[string]struct{})
	for i, p := range c.poems {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidCorpus, i, err)
		}
		if prev, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d in records %d and %d", ErrInvalidCorpus, p.ID, prev, i)
		}
		c.byID[p.ID] = i
		authors[p.Author] = struct{}{}
	}
	c.authors = len(authors)

	return c, nil
}

// Len returns the number of poems
func (c *Corpus) Len() int {
	return len(c.poems)
}

// DistinctAuthors returns the number of different author names
func (c *Corpus) DistinctAuthors() int {
	return c.authors
}

// Poems returns a copy of all poems in load order
func (c *Corpus) Poems() []models.Poem {
	out := make([]models.Poem, len(c.poems))
	copy(out, c.poems)
	return out
}

// Lookup returns the poem with the given id
func (c *Corpus) Lookup(id int64) (*models.Poem, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrPoemNotFound, id)
	}
	return &c.poems[i], nil
}

// SampleOne returns one uniformly random poem
func (c *Corpus) SampleOne(r Rand) (*models.Poem, error) {
	if len(c.poems) == 0 {
		return nil, ErrEmptyCorpus
	}
	return &c.poems[r.IntN(len(c.poems))], nil
}

// SampleDistinct draws count poems without replacement, skipping the poem
// whose id is excludeID. When fewer poems are eligible all of them are
// returned, in random order.
func (c *Corpus) SampleDistinct(r Rand, count int, excludeID int64) []*models.Poem {
	if count <= 0 {
		return nil
	}

	eligible := make([]int, 0, len(c.poems))
	for i := range c.poems {
		if c.poems[i].ID != excludeID {
			eligible = append(eligible, i)
		}
	}
	if count > len(eligible) {
		count = len(eligible)
	}

	// partial Fisher-Yates over the eligible indexes
	out := make([]*models.Poem, 0, count)
	for i := 0; i < count; i++ {
		j := i + r.IntN(len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
		out = append(out, &c.poems[eligible[i]])
	}
	return out
}

// Filter returns the poems for which keep reports true
func (c *Corpus) Filter(keep func(p *models.Poem) bool) []*models.Poem {
	var out []*models.Poem
	for i := range c.poems {
		if keep(&c.poems[i]) {
			out = append(out, &c.poems[i])
		}
	}
	return out
}

// Fingerprint returns a hex blake2b-256 digest of the corpus content.
// Poems are hashed in id order so the value does not depend on load order.
func (c *Corpus) Fingerprint() string {
	return Fingerprint(c.poems)
}

// Fingerprint hashes an arbitrary poem list the same way Corpus.Fingerprint does
func Fingerprint(poems []models.Poem) string {
	sorted := make([]models.Poem, len(poems))
	copy(sorted, poems)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h, _ := blake2b.New256(nil)
	var idBuf [8]byte
	for _, p := range sorted {
		binary.BigEndian.PutUint64(idBuf[:], uint64(p.ID))
		h.Write(idBuf[:])
		for _, field := range []string{p.Author, p.Upper, p.Lower, p.ReadingUpper, p.ReadingLower, p.Description} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
