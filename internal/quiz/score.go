package quiz

import "hyakuninquiz/internal/models"

// ScoreTracker keeps the running correct/total counters of one session.
// It has no locking of its own; GameSession serialises access.
type ScoreTracker struct {
	score models.Score
}

// Record counts one answer
func (t *ScoreTracker) Record(isCorrect bool) {
	t.score.Total++
	if isCorrect {
		t.score.Correct++
	}
}

// Reset zeroes both counters
func (t *ScoreTracker) Reset() {
	t.score = models.Score{}
}

// Score returns the current counters
func (t *ScoreTracker) Score() models.Score {
	return t.score
}
