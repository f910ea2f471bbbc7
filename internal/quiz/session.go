package quiz

import (
	"fmt"
	"sync"

	"hyakuninquiz/internal/models"
)

// State is the question lifecycle state of a GameSession
type State int

const (
	StateNoQuestion State = iota
	StateQuestionPending
	StateQuestionAnswered
)

func (s State) String() string {
	switch s {
	case StateNoQuestion:
		return "no_question"
	case StateQuestionPending:
		return "question_pending"
	case StateQuestionAnswered:
		return "question_answered"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// AnswerResult is the outcome of SubmitAnswer
type AnswerResult struct {
	Mode          models.QuestionType // mode the question was generated in
	Correct       bool
	Recorded      bool // false when the question had already been answered
	CorrectAnswer string
}

// Snapshot is a read-only view of a session
type Snapshot struct {
	Mode       models.QuestionType
	State      State
	Question   *models.Question
	LastAnswer *string
	Correct    bool // outcome of LastAnswer, meaningful only when answered
	Score      models.Score
}

// Answered reports whether the current question has been answered
func (s Snapshot) Answered() bool {
	return s.State == StateQuestionAnswered
}

// GameSession drives one player's game: mode selection, the question
// lifecycle and scoring. All methods are safe for concurrent use.
type GameSession struct {
	mu          sync.Mutex
	source      QuestionSource
	score       ScoreTracker
	mode        models.QuestionType
	state       State
	question    *models.Question
	lastAnswer  *string
	lastCorrect bool
}

// NewGameSession creates a session in StateNoQuestion with a zero score
func NewGameSession(source QuestionSource, mode models.QuestionType) (*GameSession, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return &GameSession{source: source, mode: mode}, nil
}

// RequestQuestion discards any current question and generates a new one for
// the current mode. On failure the session is left without a question.
func (s *GameSession) RequestQuestion() (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestLocked()
}

// EnsureQuestion returns the current question, generating one first when the
// session has none.
func (s *GameSession) EnsureQuestion() (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNoQuestion {
		return s.question, nil
	}
	return s.requestLocked()
}

func (s *GameSession) requestLocked() (*models.Question, error) {
	s.discardLocked()
	q, err := s.source.Generate(s.mode)
	if err != nil {
		return nil, err
	}
	s.question = q
	s.state = StateQuestionPending
	return q, nil
}

// SubmitAnswer evaluates choice against the pending question and records the
// result. Once answered, further submissions return the first result without
// touching the score. A choice outside the offered set is still evaluated.
func (s *GameSession) SubmitAnswer(choice string) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateNoQuestion:
		return AnswerResult{}, ErrNoQuestion
	case StateQuestionAnswered:
		return AnswerResult{
			Mode:          s.mode,
			Correct:       s.lastCorrect,
			Recorded:      false,
			CorrectAnswer: s.question.CorrectAnswer,
		}, nil
	}

	correct := Evaluate(choice, s.question.CorrectAnswer)
	s.score.Record(correct)
	s.lastAnswer = &choice
	s.lastCorrect = correct
	s.state = StateQuestionAnswered

	return AnswerResult{
		Mode:          s.mode,
		Correct:       correct,
		Recorded:      true,
		CorrectAnswer: s.question.CorrectAnswer,
	}, nil
}

// ChangeMode switches the mode and drops the current question. The score is
// kept. It reports whether the mode actually changed.
func (s *GameSession) ChangeMode(mode models.QuestionType) (bool, error) {
	if !mode.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == s.mode {
		return false, nil
	}
	s.mode = mode
	s.discardLocked()
	return true, nil
}

// ResetScore zeroes the score; the question and state are left alone
func (s *GameSession) ResetScore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.score.Reset()
}

// Mode returns the current mode
func (s *GameSession) Mode() models.QuestionType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Snapshot returns a consistent copy of the session state
func (s *GameSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Mode:     s.mode,
		State:    s.state,
		Question: s.question,
		Correct:  s.lastCorrect,
		Score:    s.score.Score(),
	}
	if s.lastAnswer != nil {
		answer := *s.lastAnswer
		snap.LastAnswer = &answer
	}
	return snap
}

func (s *GameSession) discardLocked() {
	s.question = nil
	s.lastAnswer = nil
	s.lastCorrect = false
	s.state = StateNoQuestion
}
