package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	AppEnv   string
	LogLevel string

	ServerPort string

	StoreBackend string
	KeyPrefix    string
	RedisURL     string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret         string
	AccessTokenMaxAge int

	SessionPollInterval time.Duration

	EventStreamEnabled bool
	InstanceID         string

	GeminiAPIKey string
	GeminiModel  string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

// IsDevelopment reports whether APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MediaConfigured reports whether every R2 setting is present.
func (c *Config) MediaConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicURL != ""
}

// loader resolves a key from the environment first, then from the optional YAML file.
type loader struct {
	file map[string]string
}

func (l loader) get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := l.file[key]; v != "" {
		return v
	}
	return def
}

func (l loader) int(key string, def int) int {
	n, err := strconv.Atoi(l.get(key, ""))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (l loader) duration(key string, def time.Duration) time.Duration {
	raw := l.get(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func (l loader) bool(key string) bool {
	b, _ := strconv.ParseBool(l.get(key, "false"))
	return b
}

// readFile loads a flat YAML mapping of KEY: value pairs.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return values, nil
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	l := loader{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := readFile(path)
		if err != nil {
			return nil, err
		}
		l.file = values
	}

	cfg := &Config{
		AppEnv:   l.get("APP_ENV", "production"),
		LogLevel: l.get("LOG_LEVEL", "info"),

		ServerPort: l.get("SERVER_PORT", "8080"),

		StoreBackend: strings.ToLower(l.get("STORE_BACKEND", BackendMemory)),
		KeyPrefix:    l.get("KEY_PREFIX", "alumniconnect"),
		RedisURL:     l.get("REDIS_URL", "redis://localhost:6379/0"),

		DBHost:     l.get("DB_HOST", ""),
		DBPort:     l.get("DB_PORT", "5432"),
		DBUser:     l.get("DB_USER", ""),
		DBPassword: l.get("DB_PASSWORD", ""),
		DBName:     l.get("DB_NAME", ""),
		DBSSLMode:  l.get("DB_SSLMODE", "disable"),

		JWTSecret:         l.get("JWT_SECRET", ""),
		AccessTokenMaxAge: l.int("ACCESS_TOKEN_MAX_AGE", 86400),

		SessionPollInterval: l.duration("SESSION_POLL_INTERVAL", 5*time.Second),

		EventStreamEnabled: l.bool("EVENT_STREAM_ENABLED"),
		InstanceID:         l.get("INSTANCE_ID", defaultInstanceID()),

		GeminiAPIKey: l.get("GEMINI_API_KEY", ""),
		GeminiModel:  l.get("GEMINI_MODEL", "gemini-2.5-flash"),

		R2AccountID:       l.get("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     l.get("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: l.get("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      l.get("R2_BUCKET_NAME", ""),
		R2PublicURL:       l.get("R2_PUBLIC_URL", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.EventStreamEnabled && c.StoreBackend == BackendMemory {
		return fmt.Errorf("EVENT_STREAM_ENABLED requires a shared store backend")
	}
	return nil
}

func defaultInstanceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host + "-" + uuid.NewString()[:8]
	}
	return uuid.NewString()
}
