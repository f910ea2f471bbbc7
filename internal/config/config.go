package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Corpus sources
const (
	CorpusSourceFile     = "file"
	CorpusSourceDatabase = "database"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	CorpusSource   string
	CorpusPath     string
	CorpusFallback bool

	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string // empty uses the embedded migrations

	SessionSecret   string
	SessionDuration time.Duration

	RandomSeed  uint64 // zero seeds from the clock
	DefaultMode string

	CORSOrigins []string
	RateLimit   int  // requests per minute per client
	TrustProxy  bool // key clients by X-Forwarded-For / X-Real-IP
	LogLevel    string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		CorpusSource:    strings.ToLower(getEnv("CORPUS_SOURCE", CorpusSourceFile)),
		CorpusPath:      getEnv("CORPUS_PATH", "./hyakunin_isshu.json"),
		CorpusFallback:  getEnvBool("CORPUS_FALLBACK", true),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./hyakunin.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", ""),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		SessionDuration: getEnvDuration("SESSION_DURATION", 24*time.Hour),
		RandomSeed:      getEnvUint("RANDOM_SEED", 0),
		DefaultMode:     getEnv("DEFAULT_MODE", "lower_verse"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimit:       getEnvInt("RATE_LIMIT", 120),
		TrustProxy:      getEnvBool("TRUST_PROXY", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Secret returns the configured session secret, generating a random
// per-process one when none was supplied. The result is cached on the config.
func (c *Config) Secret() string {
	if c.SessionSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic("config: cannot read random secret: " + err.Error())
		}
		c.SessionSecret = hex.EncodeToString(buf)
	}
	return c.SessionSecret
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if n, err := strconv.ParseUint(os.Getenv(key), 10, 64); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
