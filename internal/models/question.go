package models

import (
	"errors"
	"fmt"
)

// QuestionType selects which attribute of the poem the player has to identify
type QuestionType string

const (
	// QuestionLowerVerse shows the upper verse and asks for the lower verse
	QuestionLowerVerse QuestionType = "lower_verse"
	// QuestionAuthor shows the whole poem and asks for its author
	QuestionAuthor QuestionType = "author"
)

// ErrInvalidMode is returned when a mode string is not a known QuestionType
var ErrInvalidMode = errors.New("invalid game mode")

// ParseQuestionType converts a wire value into a QuestionType
func ParseQuestionType(s string) (QuestionType, error) {
	switch QuestionType(s) {
	case QuestionLowerVerse, QuestionAuthor:
		return QuestionType(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	return t == QuestionLowerVerse || t == QuestionAuthor
}

// Label is the human readable name of the mode
func (t QuestionType) Label() string {
	switch t {
	case QuestionLowerVerse:
		return "下の句当て"
	case QuestionAuthor:
		return "作者当て"
	}
	return string(t)
}

// Question is a single multiple-choice question. It is immutable once built.
type Question struct {
	Poem          *Poem        `json:"-"`
	Type          QuestionType `json:"question_type"`
	Prompt        string       `json:"prompt"`
	Choices       []string     `json:"choices"`
	CorrectAnswer string       `json:"-"`
}
