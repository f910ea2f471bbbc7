package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"hyakuninquiz/internal/models"
)

// Format is the on-disk encoding of a corpus file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension; anything that is
// not .yaml/.yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// record mirrors one corpus entry. Pointers distinguish a missing or null
// key from an empty value.
type record struct {
	ID           *int64  `json:"id" yaml:"id"`
	Author       *string `json:"author" yaml:"author"`
	Upper        *string `json:"upper" yaml:"upper"`
	Lower        *string `json:"lower" yaml:"lower"`
	ReadingUpper *string `json:"reading_upper" yaml:"reading_upper"`
	ReadingLower *string `json:"reading_lower" yaml:"reading_lower"`
	Description  *string `json:"description" yaml:"description"`
}

func (r record) toPoem(index int) (models.Poem, error) {
	fields := []struct {
		name    string
		present bool
	}{
		{"id", r.ID != nil},
		{"author", r.Author != nil},
		{"upper", r.Upper != nil},
		{"lower", r.Lower != nil},
		{"reading_upper", r.ReadingUpper != nil},
		{"reading_lower", r.ReadingLower != nil},
		{"description", r.Description != nil},
	}
	for _, f := range fields {
		if !f.present {
			return models.Poem{}, fmt.Errorf("%w: record %d: required field %q is missing", ErrInvalidCorpus, index, f.name)
		}
	}

	return models.Poem{
		ID:           *r.ID,
		Author:       *r.Author,
		Upper:        *r.Upper,
		Lower:        *r.Lower,
		ReadingUpper: *r.ReadingUpper,
		ReadingLower: *r.ReadingLower,
		Description:  *r.Description,
	}, nil
}

// descriptionPolicy strips all markup from free-text descriptions
var descriptionPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the decode/sanitize loop for nested entity encodings
const maxSanitizePasses = 8

// sanitizeDescription decodes entities and strips markup until the text stops
// changing. The result is always sanitizer output, so it is HTML-safe text:
// entity-encoded tags cannot come back as live markup.
func sanitizeDescription(s string) string {
	out := descriptionPolicy.Sanitize(html.UnescapeString(s))
	for range maxSanitizePasses {
		next := descriptionPolicy.Sanitize(html.UnescapeString(out))
		if next == out {
			break
		}
		out = next
	}
	return out
}

// Normalize returns p with every text field NFC-normalised and trimmed, and
// any markup removed from the description. The description is HTML-safe text,
// so characters such as & are kept as entities.
func Normalize(p models.Poem) models.Poem {
	clean := func(s string) string {
		return strings.TrimSpace(norm.NFC.String(s))
	}
	p.Author = clean(p.Author)
	p.Upper = clean(p.Upper)
	p.Lower = clean(p.Lower)
	p.ReadingUpper = clean(p.ReadingUpper)
	p.ReadingLower = clean(p.ReadingLower)
	p.Description = clean(sanitizeDescription(p.Description))
	return p
}

// Parse decodes a corpus document into normalised poems. Decoding problems
// wrap ErrCorpusLoad, missing fields wrap ErrInvalidCorpus.
func Parse(data []byte, format Format) ([]models.Poem, error) {
	var records []record
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: parsing yaml: %v", ErrCorpusLoad, err)
		}
	default:
		var err error
		if records, err = decodeJSON(data); err != nil {
			return nil, err
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records found", ErrInvalidCorpus)
	}

	poems := make([]models.Poem, 0, len(records))
	for i, r := range records {
		p, err := r.toPoem(i)
		if err != nil {
			return nil, err
		}
		poems = append(poems, Normalize(p))
	}
	return poems, nil
}

// decodeJSON accepts a bare array of records or an export document whose
// "poems" key holds the array.
func decodeJSON(data []byte) ([]record, error) {
	var records []record
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: parsing json: %v", ErrCorpusLoad, err)
		}
		return records, nil
	}

	var doc struct {
		Poems *[]record `json:"poems"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing json: %v", ErrCorpusLoad, err)
	}
	if doc.Poems == nil {
		return nil, fmt.Errorf("%w: json object has no poems list", ErrCorpusLoad)
	}
	return *doc.Poems, nil
}

// LoadFile reads and parses a corpus file
func LoadFile(path string) ([]models.Poem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}
	return Parse(data, FormatFromPath(path))
}

// Open loads a corpus file and builds a validated Corpus from it
func Open(path string) (*Corpus, error) {
	poems, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(poems)
}
