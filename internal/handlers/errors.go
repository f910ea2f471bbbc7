package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/quiz"
	"hyakuninquiz/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			logger.Error(logMsg, zap.Int("status", status), zap.Error(err))
		} else {
			logger.Info(logMsg, zap.Int("status", status), zap.Error(err))
		}
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

// statusForError maps domain errors to an HTTP status and a client message
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, quiz.ErrInsufficientCorpus):
		return http.StatusUnprocessableEntity, "Not enough poems to build a question"
	case errors.Is(err, quiz.ErrQuestionGenerationFailed):
		return http.StatusServiceUnavailable, "Question generation failed, please retry"
	case errors.Is(err, quiz.ErrNoQuestion):
		return http.StatusConflict, "No question is pending"
	case errors.Is(err, quiz.ErrInvalidMode):
		return http.StatusBadRequest, ErrInvalidMode
	case errors.Is(err, corpus.ErrPoemNotFound):
		return http.StatusNotFound, "Poem not found"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "Game session not found"
	}
	return http.StatusInternalServerError, ErrInternalServerError
}

func respondWithDomainError(w http.ResponseWriter, logger *zap.Logger, logMsg string, err error) {
	status, userMsg := statusForError(err)
	respondWithError(w, logger, status, userMsg, logMsg, err)
}
