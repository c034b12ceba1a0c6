package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glucocare/carelink/pkg/httpx"
	"github.com/glucocare/carelink/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./carelink.db)

	JWTAlgorithm        string        // Optional: HS256, RS256, ES256 or EdDSA (default: HS256)
	JWTSecret           string        // Required for HS256: the platform's shared JWT secret
	JWKSURL             string        // Required for asymmetric algorithms: the platform's JWKS endpoint
	JWKSRefreshInterval time.Duration // Optional: JWKS reload period (default: 1h)
	JWTIssuer           string        // Optional: expected iss claim (default: not enforced)
	JWTAudience         []string      // Optional: expected aud values (default: authenticated)
	RequiredRole        string        // Optional: required role claim; set empty to disable (default: authenticated)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	RequestTimeout      time.Duration // Per-request deadline (default: 15s)
	TrustedProxies      []string      // Optional: proxy CIDRs whose X-Forwarded-For is honoured (default: none)
}

// LoadDotEnv loads variables from the given files into the environment
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("CARELINK_DATABASE_FILE", "carelink.db"),

		JWTAlgorithm:        normalizeAlgorithm(getEnvOrDefault("CARELINK_JWT_ALGORITHM", jwtx.AlgorithmHS256)),
		JWTSecret:           os.Getenv("CARELINK_JWT_SECRET"),
		JWKSURL:             os.Getenv("CARELINK_JWKS_URL"),
		JWKSRefreshInterval: getEnvDurationOrDefault("CARELINK_JWKS_REFRESH_INTERVAL", time.Hour),
		JWTIssuer:           os.Getenv("CARELINK_JWT_ISSUER"),
		JWTAudience:         splitList(getEnvOrDefault("CARELINK_JWT_AUDIENCE", "authenticated")),
		RequiredRole:        lookupEnvOrDefault("CARELINK_REQUIRED_ROLE", "authenticated"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		RequestTimeout:      getEnvDurationOrDefault("REQUEST_TIMEOUT", 15*time.Second),
		TrustedProxies:      splitList(os.Getenv("CARELINK_TRUSTED_PROXIES")),
	}
}

// Validate checks that the token verification settings are usable.
func (c Config) Validate() error {
	switch c.JWTAlgorithm {
	case jwtx.AlgorithmHS256:
		if c.JWTSecret == "" {
			return errors.New("CARELINK_JWT_SECRET is required for HS256")
		}
		if len(c.JWTSecret) < jwtx.MinHMACSecretLength {
			return fmt.Errorf("CARELINK_JWT_SECRET must be at least %d bytes", jwtx.MinHMACSecretLength)
		}
	case jwtx.AlgorithmRS256, jwtx.AlgorithmES256, jwtx.AlgorithmEdDSA:
		if c.JWKSURL == "" {
			return fmt.Errorf("CARELINK_JWKS_URL is required for %s", c.JWTAlgorithm)
		}
	default:
		return fmt.Errorf("unsupported CARELINK_JWT_ALGORITHM %q", c.JWTAlgorithm)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return fmt.Errorf("CARELINK_TRUSTED_PROXIES: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnvOrDefault is like getEnvOrDefault but honours an explicitly empty value.
func lookupEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

// normalizeAlgorithm maps a case-insensitive algorithm name to its canonical
// spelling. Unknown names are returned unchanged for Validate to reject.
func normalizeAlgorithm(alg string) string {
	for _, known := range []string{jwtx.AlgorithmHS256, jwtx.AlgorithmRS256, jwtx.AlgorithmES256, jwtx.AlgorithmEdDSA} {
		if strings.EqualFold(strings.TrimSpace(alg), known) {
			return known
		}
	}
	return alg
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
