package service

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/logging"
	"hyakuninquiz/internal/models"
	"hyakuninquiz/internal/quiz"
	"hyakuninquiz/internal/security"
)

// ErrSessionNotFound is returned for unknown or expired game sessions
var ErrSessionNotFound = errors.New("game session not found")

// Metrics receives quiz events. *metrics.Collector satisfies it.
type Metrics interface {
	QuestionGenerated(mode string)
	GenerationFailed(mode string, err error)
	AnswerRecorded(mode string, correct bool)
	SetActiveSessions(n int)
}

type noopMetrics struct{}

func (noopMetrics) QuestionGenerated(string) {}
func (noopMetrics) GenerationFailed(string, error) {}
func (noopMetrics) AnswerRecorded(string, bool) {}
func (noopMetrics) SetActiveSessions(int) {}

// SessionOptions configures a SessionService
type SessionOptions struct {
	DefaultMode models.QuestionType
	TTL         time.Duration // idle lifetime; zero keeps sessions forever
	Seed        uint64        // non-zero makes question order reproducible
	Metrics     Metrics
	Logger      *zap.Logger
}

// SessionService keeps one GameSession per player in memory
type SessionService struct {
	corpus      *corpus.Corpus
	defaultMode models.QuestionType
	ttl         time.Duration
	seed        uint64
	metrics     Metrics
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	created  uint64
}

type sessionEntry struct {
	game     *quiz.GameSession
	lastSeen time.Time
}

// NewSessionService creates a session store over an immutable corpus
func NewSessionService(c *corpus.Corpus, opts SessionOptions) (*SessionService, error) {
	mode := opts.DefaultMode
	if mode == "" {
		mode = models.QuestionLowerVerse
	}
	if !mode.Valid() {
		return nil, quiz.ErrInvalidMode
	}

	s := &SessionService{
		corpus:      c,
		defaultMode: mode,
		ttl:         opts.TTL,
		seed:        opts.Seed,
		metrics:     opts.Metrics,
		logger:      logging.OrNop(opts.Logger),
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	return s, nil
}

// Corpus returns the corpus questions are drawn from
func (s *SessionService) Corpus() *corpus.Corpus {
	return s.corpus
}

// Create starts a new game session and returns its id
func (s *SessionService) Create() (string, *quiz.GameSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := security.NewSessionID()
	s.created++
	source := &instrumentedSource{
		next:    quiz.NewGenerator(s.corpus, s.newRand()),
		metrics: s.metrics,
	}
	// defaultMode was validated in the constructor
	game, _ := quiz.NewGameSession(source, s.defaultMode)
	s.sessions[id] = &sessionEntry{game: game, lastSeen: s.now()}
	s.metrics.SetActiveSessions(len(s.sessions))

	s.logger.Debug("game session created", zap.String("session_id", id))
	return id, game
}

// newRand gives each session its own source. *rand.Rand is not safe for
// concurrent use, so sessions never share one.
func (s *SessionService) newRand() *rand.Rand {
	if s.seed != 0 {
		return rand.New(rand.NewPCG(s.seed, s.created))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Get returns the session for id and refreshes its idle timer
func (s *SessionService) Get(id string) (*quiz.GameSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		s.metrics.SetActiveSessions(len(s.sessions))
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = now
	return entry.game, nil
}

// GetOrCreate returns the session for id, or a fresh one when id is unknown
// or expired. created reports whether a new session was made.
func (s *SessionService) GetOrCreate(id string) (string, *quiz.GameSession, bool) {
	if id != "" {
		if game, err := s.Get(id); err == nil {
			return id, game, false
		}
	}
	newID, game := s.Create()
	return newID, game, true
}

// Count returns the number of sessions held in memory
func (s *SessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CleanupExpiredSessions removes sessions idle longer than the TTL and
// returns how many were dropped
func (s *SessionService) CleanupExpiredSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.metrics.SetActiveSessions(len(s.sessions))
	return removed
}

func (s *SessionService) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

// SubmitAnswer forwards to the session and counts answers that changed the
// score, labelled with the mode reported by the session itself
func (s *SessionService) SubmitAnswer(game *quiz.GameSession, choice string) (quiz.AnswerResult, error) {
	result, err := game.SubmitAnswer(choice)
	if err != nil {
		return result, err
	}
	if result.Recorded {
		s.metrics.AnswerRecorded(string(result.Mode), result.Correct)
	}
	return result, nil
}

// instrumentedSource counts generated questions and failures
type instrumentedSource struct {
	next    quiz.QuestionSource
	metrics Metrics
}

func (s *instrumentedSource) Generate(mode models.QuestionType) (*models.Question, error) {
	q, err := s.next.Generate(mode)
	if err != nil {
		s.metrics.GenerationFailed(string(mode), err)
		return nil, err
	}
	s.metrics.QuestionGenerated(string(mode))
	return q, nil
}
