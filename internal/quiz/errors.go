package quiz

import (
	"errors"
	"fmt"

	"hyakuninquiz/internal/models"
)

var (
	// ErrInsufficientCorpus means the corpus has fewer poems than a question needs
	ErrInsufficientCorpus = errors.New("insufficient corpus: at least 4 poems are required")
	// ErrQuestionGenerationFailed wraps any other fault while building a question
	ErrQuestionGenerationFailed = errors.New("question generation failed")
	// ErrNoQuestion is returned when an answer arrives while no question is pending
	ErrNoQuestion = errors.New("no question to answer")
	// ErrInvalidMode is the models error, re-exported for callers of this package
	ErrInvalidMode = models.ErrInvalidMode
)

// recoverGeneration turns a panic during generation into ErrQuestionGenerationFailed
func recoverGeneration(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrQuestionGenerationFailed, r)
	}
}
