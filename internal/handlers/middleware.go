package handlers

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"hyakuninquiz/internal/logging"
	"hyakuninquiz/internal/quiz"
	"hyakuninquiz/internal/security"
	"hyakuninquiz/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const GameSessionContextKey ContextKey = "game_session"

// GameContext is the game session bound to a request
type GameContext struct {
	ID   string
	Game *quiz.GameSession
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessions *service.SessionService
	signer   *security.SessionSigner
	csrf     *security.CSRFGenerator
	limiter  *security.RateLimiter
	logger   *zap.Logger
}

// NewMiddleware creates a new middleware instance. limiter may be nil to
// disable rate limiting.
func NewMiddleware(sessions *service.SessionService, signer *security.SessionSigner, csrf *security.CSRFGenerator, limiter *security.RateLimiter, logger *zap.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		signer:   signer,
		csrf:     csrf,
		limiter:  limiter,
		logger:   logging.OrNop(logger),
	}
}

// WithGameSession resolves the session cookie into a game session, starting a
// new one when the cookie is missing, forged or expired. The cookie is
// re-signed on every request so active players keep their session.
func (m *Middleware) WithGameSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var requested string
		if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
			id, err := m.signer.Parse(cookie.Value)
			if err != nil {
				m.logger.Debug("discarding session cookie", zap.Error(err))
			}
			requested = id
		}

		id, game, created := m.sessions.GetOrCreate(requested)
		if created {
			m.logger.Info("game session started", zap.String("session_id", id))
		}

		token, err := m.signer.Issue(id)
		if err != nil {
			respondWithError(w, m.logger, http.StatusInternalServerError, ErrInternalServerError, "Error signing session token", err)
			return
		}
		http.SetCookie(w, security.CreateSessionCookie(r, token, time.Now().Add(m.signer.Lifetime())))

		ctx := context.WithValue(r.Context(), GameSessionContextKey, &GameContext{ID: id, Game: game})
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect rejects requests whose X-CSRF-Token header does not match the
// game session. It must run inside WithGameSession.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gc := GetGameContext(r.Context())
		if gc == nil || !m.csrf.ValidateToken(gc.ID, r.Header.Get(security.CSRFHeader)) {
			respondWithError(w, m.logger, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit rejects clients that exceed the configured request budget
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	if m.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := m.limiter.ClientIP(r)
		if !m.limiter.Allow(ip) {
			m.logger.Warn("rate limit exceeded", zap.String("client_ip", ip))
			w.Header().Set("Retry-After", "60")
			respondWithError(w, m.logger, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logging.OrNop(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}

// CORS allows the browser front end to call the API from origins. Cookies
// are only accepted cross-origin for an explicit origin list; a wildcard
// never carries credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", security.CSRFHeader},
		AllowCredentials: len(origins) > 0 && !slices.Contains(origins, "*"),
		MaxAge:           300,
	})
}

// GetGameContext retrieves the game session from the request context
func GetGameContext(ctx context.Context) *GameContext {
	gc, ok := ctx.Value(GameSessionContextKey).(*GameContext)
	if !ok {
		return nil
	}
	return gc
}
