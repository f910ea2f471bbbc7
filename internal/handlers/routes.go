package handlers

import "net/http"

// RegisterRoutes wires the quiz API onto mux. metrics may be nil.
func RegisterRoutes(mux *http.ServeMux, m *Middleware, quiz *QuizHandler, poems *PoemHandler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", poems.Health)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	// Corpus browsing
	mux.HandleFunc("GET /api/poems", poems.ListPoems)
	mux.HandleFunc("GET /api/poems/{id}", poems.GetPoem)

	// Game session
	mux.HandleFunc("GET /api/state", m.WithGameSession(quiz.GetState))
	mux.HandleFunc("POST /api/question", m.WithGameSession(m.CSRFProtect(quiz.NewQuestion)))
	mux.HandleFunc("POST /api/answer", m.WithGameSession(m.CSRFProtect(quiz.SubmitAnswer)))
	mux.HandleFunc("PUT /api/mode", m.WithGameSession(m.CSRFProtect(quiz.ChangeMode)))
	mux.HandleFunc("POST /api/score/reset", m.WithGameSession(m.CSRFProtect(quiz.ResetScore)))
}
