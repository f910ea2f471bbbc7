package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hyakuninquiz/internal/config"
	"hyakuninquiz/internal/corpus"
	"hyakuninquiz/internal/database"
	"hyakuninquiz/internal/handlers"
	"hyakuninquiz/internal/logging"
	"hyakuninquiz/internal/metrics"
	"hyakuninquiz/internal/models"
	"hyakuninquiz/internal/security"
	"hyakuninquiz/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	c, closeDB, err := loadCorpus(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	mode, err := models.ParseQuestionType(cfg.DefaultMode)
	if err != nil {
		return err
	}

	collector := metrics.New()
	sessions, err := service.NewSessionService(c, service.SessionOptions{
		DefaultMode: mode,
		TTL:         cfg.SessionDuration,
		Seed:        cfg.RandomSeed,
		Metrics:     collector,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	secret := cfg.Secret()
	csrf := security.NewCSRFGenerator(secret)
	signer := security.NewSessionSigner(secret, cfg.SessionDuration)
	limiter := security.NewRateLimiter(cfg.RateLimit, time.Minute, cfg.TrustProxy)

	// Initialize handlers
	middleware := handlers.NewMiddleware(sessions, signer, csrf, limiter, logger)
	quizHandler := handlers.NewQuizHandler(sessions, csrf, logger)
	poemHandler := handlers.NewPoemHandler(c, sessions, logger)

	// Setup routes
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, middleware, quizHandler, poemHandler, collector.Handler())

	corsHandler := handlers.CORS(cfg.CORSOrigins)
	handler := handlers.Logging(logger)(corsHandler(middleware.RateLimit(mux)))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start background session cleanup
	go cleanupExpiredSessions(ctx, sessions, limiter, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.Int("poems", c.Len()),
			zap.String("mode", string(mode)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loadCorpus opens the database when the corpus lives there and builds the
// corpus from the configured source
func loadCorpus(cfg *config.Config, logger *zap.Logger) (*corpus.Corpus, func(), error) {
	noop := func() {}
	if cfg.CorpusSource != config.CorpusSourceDatabase {
		c, err := service.NewCorpusService(nil, logger).Load(service.LoadOptionsFromConfig(cfg))
		return c, noop, err
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, noop, err
	}
	logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

	applied, err := db.RunMigrations(database.MigrationSource(cfg.MigrationsPath))
	if err != nil {
		db.Close()
		return nil, noop, err
	}
	logger.Info("migrations completed", zap.Strings("applied", applied))

	c, err := service.NewCorpusService(db, logger).Load(service.LoadOptionsFromConfig(cfg))
	if err != nil {
		db.Close()
		return nil, noop, err
	}
	return c, func() { db.Close() }, nil
}

// cleanupExpiredSessions periodically removes idle game sessions and stale
// rate limiter entries
func cleanupExpiredSessions(ctx context.Context, sessions *service.SessionService, limiter *security.RateLimiter, logger *zap.Logger) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := sessions.CleanupExpiredSessions()
			visitors := limiter.Cleanup()
			logger.Info("expired sessions cleaned up",
				zap.Int("sessions", removed),
				zap.Int("visitors", visitors))
		}
	}
}
