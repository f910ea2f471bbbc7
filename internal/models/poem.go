package models

import (
	"fmt"
	"strings"
)

// Poem represents one poem of the corpus: two half-verses with readings
type Poem struct {
	ID           int64  `json:"id" yaml:"id"`
	Author       string `json:"author" yaml:"author"`
	Upper        string `json:"upper" yaml:"upper"`
	Lower        string `json:"lower" yaml:"lower"`
	ReadingUpper string `json:"reading_upper" yaml:"reading_upper"`
	ReadingLower string `json:"reading_lower" yaml:"reading_lower"`
	Description  string `json:"description" yaml:"description"`
}

// Validate checks that every required text field is non-blank.
// Description may be empty.
func (p Poem) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"author", p.Author},
		{"upper", p.Upper},
		{"lower", p.Lower},
		{"reading_upper", p.ReadingUpper},
		{"reading_lower", p.ReadingLower},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return ValidationError{Field: f.name, Message: fmt.Sprintf("is required (poem %d)", p.ID)}
		}
	}
	return nil
}

// FullText returns the upper and lower verse joined by a newline
func (p Poem) FullText() string {
	return p.Upper + "\n" + p.Lower
}
