package handlers

import (
	"hyakuninquiz/internal/models"
	"hyakuninquiz/internal/quiz"
)

type QuestionView struct {
	Type    models.QuestionType `json:"type"`
	Label   string              `json:"label"`
	Prompt  string              `json:"prompt"`
	Choices []string            `json:"choices"`
}

type ScoreView struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// StateView is the JSON form of a game session snapshot. The correct answer
// and the poem behind the question are only revealed once answered.
type StateView struct {
	Mode          models.QuestionType `json:"mode"`
	ModeLabel     string              `json:"mode_label"`
	State         string              `json:"state"`
	Question      *QuestionView       `json:"question"`
	Answered      bool                `json:"answered"`
	LastAnswer    *string             `json:"last_answer,omitempty"`
	Correct       *bool               `json:"correct,omitempty"`
	CorrectAnswer string              `json:"correct_answer,omitempty"`
	Explanation   *models.Poem        `json:"explanation,omitempty"`
	Score         ScoreView           `json:"score"`
	CSRFToken     string              `json:"csrf_token"`
}

type AnswerResponse struct {
	Correct  bool      `json:"correct"`
	Recorded bool      `json:"recorded"`
	Snapshot StateView `json:"snapshot"`
}

type PoemListView struct {
	Count       int           `json:"count"`
	Fingerprint string        `json:"fingerprint"`
	Poems       []models.Poem `json:"poems"`
}

type HealthView struct {
	Status         string `json:"status"`
	Poems          int    `json:"poems"`
	Authors        int    `json:"authors"`
	Fingerprint    string `json:"fingerprint"`
	ActiveSessions int    `json:"active_sessions"`
}

func newStateView(snap quiz.Snapshot, csrfToken string) StateView {
	view := StateView{
		Mode:      snap.Mode,
		ModeLabel: snap.Mode.Label(),
		State:     snap.State.String(),
		Answered:  snap.Answered(),
		Score: ScoreView{
			Correct:    snap.Score.Correct,
			Total:      snap.Score.Total,
			Percentage: snap.Score.Percentage(),
		},
		CSRFToken: csrfToken,
	}

	if q := snap.Question; q != nil {
		view.Question = &QuestionView{
			Type:    q.Type,
			Label:   q.Type.Label(),
			Prompt:  q.Prompt,
			Choices: q.Choices,
		}
		if view.Answered {
			correct := snap.Correct
			view.LastAnswer = snap.LastAnswer
			view.Correct = &correct
			view.CorrectAnswer = q.CorrectAnswer
			if q.Poem != nil {
				poem := *q.Poem
				view.Explanation = &poem
			}
		}
	}
	return view
}
