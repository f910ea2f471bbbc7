package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/logging"
	"hyakuninquiz/internal/service"
)

// PoemHandler serves the corpus and the health check
type PoemHandler struct {
	corpus   *corpus.Corpus
	sessions *service.SessionService
	logger   *zap.Logger
}

// NewPoemHandler creates a new poem handler
func NewPoemHandler(c *corpus.Corpus, sessions *service.SessionService, logger *zap.Logger) *PoemHandler {
	return &PoemHandler{corpus: c, sessions: sessions, logger: logging.OrNop(logger)}
}

// ListPoems returns every poem in corpus order
func (h *PoemHandler) ListPoems(w http.ResponseWriter, r *http.Request) {
	poems := h.corpus.Poems()
	respondWithJSON(w, http.StatusOK, PoemListView{
		Count:       len(poems),
		Fingerprint: h.corpus.Fingerprint(),
		Poems:       poems,
	})
}

// GetPoem returns one poem by id
func (h *PoemHandler) GetPoem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, ErrInvalidPoemID, "", nil)
		return
	}

	poem, err := h.corpus.Lookup(id)
	if err != nil {
		respondWithDomainError(w, h.logger, "Error looking up poem", err)
		return
	}
	respondWithJSON(w, http.StatusOK, poem)
}

// Health reports corpus statistics
func (h *PoemHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthView{
		Status:         "ok",
		Poems:          h.corpus.Len(),
		Authors:        h.corpus.DistinctAuthors(),
		Fingerprint:    h.corpus.Fingerprint(),
		ActiveSessions: h.sessions.Count(),
	})
}
