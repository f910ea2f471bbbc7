package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"hyakuninquiz/internal/logging"
	"hyakuninquiz/internal/models"
	"hyakuninquiz/internal/security"
	"hyakuninquiz/internal/service"
)

// QuizHandler exposes the game session operations over JSON
type QuizHandler struct {
	sessions *service.SessionService
	csrf     *security.CSRFGenerator
	logger   *zap.Logger
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(sessions *service.SessionService, csrf *security.CSRFGenerator, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{sessions: sessions, csrf: csrf, logger: logging.OrNop(logger)}
}

type answerRequest struct {
	Choice string `json:"choice"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// GetState returns the session snapshot, generating a question first when
// none is pending
func (h *QuizHandler) GetState(w http.ResponseWriter, r *http.Request) {
	gc := GetGameContext(r.Context())
	if _, err := gc.Game.EnsureQuestion(); err != nil {
		respondWithDomainError(w, h.logger, "Error preparing question", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.stateView(gc))
}

// NewQuestion discards the current question and generates the next one
func (h *QuizHandler) NewQuestion(w http.ResponseWriter, r *http.Request) {
	gc := GetGameContext(r.Context())
	if _, err := gc.Game.RequestQuestion(); err != nil {
		respondWithDomainError(w, h.logger, "Error generating question", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.stateView(gc))
}

// SubmitAnswer scores the player's choice
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	gc := GetGameContext(r.Context())

	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "Error decoding answer", err)
		return
	}

	result, err := h.sessions.SubmitAnswer(gc.Game, req.Choice)
	if err != nil {
		respondWithDomainError(w, h.logger, "Error submitting answer", err)
		return
	}

	respondWithJSON(w, http.StatusOK, AnswerResponse{
		Correct:  result.Correct,
		Recorded: result.Recorded,
		Snapshot: h.stateView(gc),
	})
}

// ChangeMode switches between lower_verse and author questions
func (h *QuizHandler) ChangeMode(w http.ResponseWriter, r *http.Request) {
	gc := GetGameContext(r.Context())

	var req modeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON, "Error decoding mode", err)
		return
	}

	mode, err := models.ParseQuestionType(req.Mode)
	if err != nil {
		respondWithDomainError(w, h.logger, "Error parsing mode", err)
		return
	}
	if _, err := gc.Game.ChangeMode(mode); err != nil {
		respondWithDomainError(w, h.logger, "Error changing mode", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.stateView(gc))
}

// ResetScore zeroes the score and keeps the current question
func (h *QuizHandler) ResetScore(w http.ResponseWriter, r *http.Request) {
	gc := GetGameContext(r.Context())
	gc.Game.ResetScore()
	respondWithJSON(w, http.StatusOK, h.stateView(gc))
}

func (h *QuizHandler) stateView(gc *GameContext) StateView {
	token, err := h.csrf.GenerateToken(gc.ID)
	if err != nil {
		h.logger.Error("Error generating CSRF token", zap.Error(err))
	}
	return newStateView(gc.Game.Snapshot(), token)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
