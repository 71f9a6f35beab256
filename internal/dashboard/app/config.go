package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	StoreDriver  string // sqlite or postgres (default: sqlite)
	DatabaseFile string // SQLite database file (default: ./ledger.db)
	DatabaseURL  string // Postgres connection URL, required for the postgres driver
	PGMaxConns   int    // Postgres pool size (default: 10)
	PGMinConns   int    // Idle connections kept open (default: 1)

	PGConnectTimeout time.Duration // Postgres connect and first ping (default: 10s)

	Issuer       string        // Required: expected "iss" of access tokens
	Audience     []string      // Optional: accepted "aud" values, comma separated
	JWKSURL      string        // JWKS endpoint of the auth provider
	JWKSFile     string        // Static JWKS file, used instead of JWKSURL when set
	JWKSRefresh  time.Duration // JWKS refresh interval (default: 15m)
	ClockLeeway  time.Duration // Allowed clock skew on exp/nbf (default: 30s)

	OnboardingBaseURL    string        // Prefix of the public onboarding link
	SessionIdleTimeout   time.Duration // Page sessions idle this long are dropped (default: 30m)
	SessionSweepInterval time.Duration // How often idle sessions are swept (default: 1m)
}

// LoadConfig reads the environment, after loading .env from the working
// directory when one exists.
func LoadConfig() Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	port := getEnvIntOrDefault("PORT", 8080)
	cfg := Config{
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                port,
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		StoreDriver:  strings.ToLower(getEnvOrDefault("STORE_DRIVER", "sqlite")),
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "ledger.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		PGMaxConns:   getEnvIntOrDefault("PG_MAX_CONNS", 10),
		PGMinConns:   getEnvIntOrDefault("PG_MIN_CONNS", 1),

		PGConnectTimeout: getEnvDurationOrDefault("PG_CONNECT_TIMEOUT", 10*time.Second),

		Issuer:      os.Getenv("AUTH_ISSUER"),
		Audience:    splitList(os.Getenv("AUTH_AUDIENCE")),
		JWKSURL:     os.Getenv("AUTH_JWKS_URL"),
		JWKSFile:    os.Getenv("AUTH_JWKS_FILE"),
		JWKSRefresh: getEnvDurationOrDefault("AUTH_JWKS_REFRESH", 15*time.Minute),
		ClockLeeway: getEnvDurationOrDefault("AUTH_CLOCK_LEEWAY", 30*time.Second),

		OnboardingBaseURL: getEnvOrDefault(
			"ONBOARDING_BASE_URL",
			"http://localhost:"+strconv.Itoa(port)+"/onboard",
		),
		SessionIdleTimeout:   getEnvDurationOrDefault("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SessionSweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", time.Minute),
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "bartab-auth"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
