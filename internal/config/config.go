package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAccessMinutes = 15
	DefaultRefreshDays   = 7
)

var ErrConfig = errors.New("invalid configuration")

type Config struct {
	AppEnv     string
	ServerPort int
	LogLevel   string

	DBDriver    string
	DatabaseURL string

	RedisURL string

	JWTSecret            []byte
	JWTRefreshSecret     []byte
	AccessTTL            time.Duration
	RefreshTTL           time.Duration
	RevokeRotatedRefresh bool

	CSRFEnabled bool
	CORSOrigins []string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
}

// Production reports whether cookies must carry the Secure flag.
func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		AppEnv:     EnvDefault("APP_ENV", "development"),
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisURL: EnvDefault("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret:            []byte(os.Getenv("SECRET_JWT_KEY")),
		JWTRefreshSecret:     []byte(os.Getenv("SECRET_JWT_REFRESH_KEY")),
		AccessTTL:            time.Duration(EnvIntDefault("JWT_EXPIRATION_MINUTES", DefaultAccessMinutes)) * time.Minute,
		RefreshTTL:           time.Duration(EnvIntDefault("JWT_REFRESH_EXPIRATION_DAYS", DefaultRefreshDays)) * 24 * time.Hour,
		RevokeRotatedRefresh: EnvBoolDefault("JWT_REFRESH_REVOKE_ON_ROTATE", false),

		CSRFEnabled: EnvBoolDefault("CSRF_ENABLED", false),
		CORSOrigins: CSV(os.Getenv("CORS_ALLOWED_ORIGINS")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := MustNonEmptyBytes(c.JWTSecret, "SECRET_JWT_KEY"); err != nil {
		return err
	}
	if err := MustNonEmptyBytes(c.JWTRefreshSecret, "SECRET_JWT_REFRESH_KEY"); err != nil {
		return err
	}
	if bytes.Equal(c.JWTSecret, c.JWTRefreshSecret) {
		return fmt.Errorf("%w: SECRET_JWT_KEY and SECRET_JWT_REFRESH_KEY must differ", ErrConfig)
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("%w: JWT_EXPIRATION_MINUTES must be positive", ErrConfig)
	}
	if c.RefreshTTL <= 0 {
		return fmt.Errorf("%w: JWT_REFRESH_EXPIRATION_DAYS must be positive", ErrConfig)
	}
	switch c.DBDriver {
	case "postgres":
		if err := MustNonEmpty(c.DatabaseURL, "DATABASE_URL"); err != nil {
			return err
		}
	case "sqlite":
	default:
		return fmt.Errorf("%w: unknown DB_DRIVER %q", ErrConfig, c.DBDriver)
	}
	return nil
}

func MustNonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("%w: missing required env %s", ErrConfig, envName)
	}
	return nil
}

func MustNonEmptyBytes(value []byte, envName string) error {
	if len(value) == 0 {
		return fmt.Errorf("%w: missing required env %s", ErrConfig, envName)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
