package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultStateKey is the storage key under which the whole state document lives.
const DefaultStateKey = "KRUX_FINANCE_SUPPORT_STATE"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	State        StateConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Badger       BadgerConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Bot          BotConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StateConfig selects where the state document is persisted.
type StateConfig struct {
	Driver string
	Key    string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// BadgerConfig configures the embedded store.
type BadgerConfig struct {
	Dir string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines session token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
}

// BotConfig configures the text-generation backend behind the assistant.
type BotConfig struct {
	Provider           string
	APIKey             string
	Model              string
	BaseURL            string
	TimeoutSeconds     int
	GreetingDelayMilli int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Supported state drivers.
const (
	StateDriverMemory   = "memory"
	StateDriverRedis    = "redis"
	StateDriverPostgres = "postgres"
	StateDriverBadger   = "badger"
)

// Supported bot providers.
const (
	BotProviderGemini = "gemini"
	BotProviderOpenAI = "openai"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "krux-support-chat"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		State: StateConfig{
			Driver: strings.ToLower(getEnv("STATE_DRIVER", StateDriverMemory)),
			Key:    getEnv("STATE_KEY", DefaultStateKey),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Badger: BadgerConfig{
			Dir: getEnv("BADGER_DIR", "./data/state"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		Bot: BotConfig{
			Provider:           strings.ToLower(getEnv("BOT_PROVIDER", BotProviderGemini)),
			Model:              os.Getenv("BOT_MODEL"),
			BaseURL:            os.Getenv("BOT_BASE_URL"),
			TimeoutSeconds:     getEnvAsInt("BOT_TIMEOUT_SECONDS", 30),
			GreetingDelayMilli: getEnvAsInt("BOT_GREETING_DELAY_MS", 1000),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@kruxfinance.example"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}
	cfg.Bot.APIKey = botAPIKey(cfg.Bot.Provider)

	switch cfg.State.Driver {
	case StateDriverMemory, StateDriverRedis, StateDriverPostgres, StateDriverBadger:
	default:
		return nil, fmt.Errorf("invalid STATE_DRIVER %q", cfg.State.Driver)
	}
	if cfg.State.Driver == StateDriverPostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required when STATE_DRIVER=%s", StateDriverPostgres)
	}
	switch cfg.Bot.Provider {
	case BotProviderGemini, BotProviderOpenAI:
	default:
		return nil, fmt.Errorf("invalid BOT_PROVIDER %q", cfg.Bot.Provider)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout bounds a single text-generation call.
func (b BotConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// GreetingDelay is how long a fresh ticket waits before the bot greets.
func (b BotConfig) GreetingDelay() time.Duration {
	if b.GreetingDelayMilli <= 0 {
		return 0
	}
	return time.Duration(b.GreetingDelayMilli) * time.Millisecond
}

// AccessTokenTTL returns the session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// botAPIKey prefers BOT_API_KEY, then the provider's conventional variable.
func botAPIKey(provider string) string {
	if key := os.Getenv("BOT_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case BotProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	default:
		return os.Getenv("GEMINI_API_KEY")
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
