package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Firebase FirebaseConfig
	Store    StoreConfig
	Redis    RedisConfig
	S3       S3Config
	Audit    AuditConfig
	Auth     AuthConfig
	Sweeper  SweeperConfig
}

type ServerConfig struct {
	Port           string
	PublicBaseURL  string
	AllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	StorageBucket   string
	WebAPIKey       string
}

// StoreConfig selects the document and blob backends.
type StoreConfig struct {
	Documents string // firebase | redis
	Blobs     string // firebase | redis | s3
	Timeout   time.Duration
	EventBus  string // local | redis
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type S3Config struct {
	Bucket string
	Region string
}

type AuditConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Enabled reports whether an audit database is configured.
func (a AuditConfig) Enabled() bool {
	return a.Host != ""
}

type AuthConfig struct {
	Provider       string // firebase | local
	LoginRatePerIP float64
	LoginBurst     int
}

type SweeperConfig struct {
	Schedule    string
	GracePeriod time.Duration
}

const (
	BackendFirebase = "firebase"
	BackendRedis    = "redis"
	BackendS3       = "s3"
	BackendLocal    = "local"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
			WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
		},
		Store: StoreConfig{
			Documents: getEnv("STORE_BACKEND", BackendFirebase),
			Blobs:     getEnv("BLOB_BACKEND", BackendFirebase),
			Timeout:   getEnvAsDuration("STORE_TIMEOUT", 10*time.Second),
			EventBus:  getEnv("EVENT_BUS", BackendLocal),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "sky"),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("AWS_REGION", "us-east-1"),
		},
		Audit: AuditConfig{
			Host:     getEnv("AUDIT_DB_HOST", ""),
			Port:     getEnvAsInt("AUDIT_DB_PORT", 5432),
			User:     getEnv("AUDIT_DB_USER", "postgres"),
			Password: getEnv("AUDIT_DB_PASSWORD", ""),
			Name:     getEnv("AUDIT_DB_NAME", "skyproperties"),
		},
		Auth: AuthConfig{
			Provider:       getEnv("AUTH_PROVIDER", BackendFirebase),
			LoginRatePerIP: getEnvAsFloat("LOGIN_RATE_PER_SECOND", 0.5),
			LoginBurst:     getEnvAsInt("LOGIN_BURST", 5),
		},
		Sweeper: SweeperConfig{
			Schedule:    getEnv("SWEEP_SCHEDULE", ""),
			GracePeriod: getEnvAsDuration("SWEEP_GRACE_PERIOD", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Documents {
	case BackendFirebase, BackendRedis:
	default:
		return fmt.Errorf("STORE_BACKEND must be firebase or redis, got %q", c.Store.Documents)
	}

	switch c.Store.Blobs {
	case BackendFirebase, BackendRedis:
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when BLOB_BACKEND=s3")
		}
	default:
		return fmt.Errorf("BLOB_BACKEND must be firebase, redis or s3, got %q", c.Store.Blobs)
	}

	switch c.Store.EventBus {
	case BackendLocal, BackendRedis:
	default:
		return fmt.Errorf("EVENT_BUS must be local or redis, got %q", c.Store.EventBus)
	}

	switch c.Auth.Provider {
	case BackendFirebase:
		if c.Firebase.WebAPIKey == "" {
			return fmt.Errorf("FIREBASE_WEB_API_KEY is required when AUTH_PROVIDER=firebase")
		}
	case BackendLocal:
	default:
		return fmt.Errorf("AUTH_PROVIDER must be firebase or local, got %q", c.Auth.Provider)
	}

	if c.NeedsFirebase() && c.Firebase.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}
	if c.Store.Blobs == BackendFirebase && c.Firebase.StorageBucket == "" {
		return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required when BLOB_BACKEND=firebase")
	}

	return nil
}

// NeedsFirebase reports whether any component talks to Firebase.
func (c *Config) NeedsFirebase() bool {
	return c.Store.Documents == BackendFirebase ||
		c.Store.Blobs == BackendFirebase ||
		c.Auth.Provider == BackendFirebase
}

// NeedsRedis reports whether any component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.Store.Documents == BackendRedis ||
		c.Store.Blobs == BackendRedis ||
		c.Store.EventBus == BackendRedis
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
