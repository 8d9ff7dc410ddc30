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
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Places   PlacesConfig
	LLM      LLMConfig
	Jobs     JobsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	AuthModeFirebase = "firebase"
	AuthModeHMAC     = "hmac"
)

type AuthConfig struct {
	Mode                    string
	FirebaseCredentialsPath string
	HMACSecret              string
}

type PlacesConfig struct {
	APIKey        string
	BaseURL       string
	CacheTTL      time.Duration
	RatePerSecond float64
	Timeout       time.Duration
}

const (
	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
)

type LLMConfig struct {
	Provider      string
	APIKey        string
	Model         string
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
}

type JobsConfig struct {
	Inline       bool
	Workers      int
	PollInterval time.Duration
	MaxAttempts  int
	StaleAfter   time.Duration
	SweepSpec    string
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Mode:                    getEnv("AUTH_MODE", AuthModeFirebase),
			FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			HMACSecret:              getEnv("AUTH_HMAC_SECRET", ""),
		},
		Places: PlacesConfig{
			APIKey:        getEnv("GOOGLE_PLACES_API_KEY", ""),
			BaseURL:       getEnv("GOOGLE_PLACES_BASE_URL", "https://places.googleapis.com/v1"),
			CacheTTL:      getEnvAsDuration("PLACES_CACHE_TTL", 6*time.Hour),
			RatePerSecond: getEnvAsFloat("PLACES_RATE_PER_SECOND", 5),
			Timeout:       getEnvAsDuration("PLACES_TIMEOUT", 15*time.Second),
		},
		LLM: LLMConfig{
			Provider:      getEnv("LLM_PROVIDER", LLMProviderGemini),
			APIKey:        getEnv("LLM_API_KEY", ""),
			Model:         getEnv("LLM_MODEL", "gemini-2.5-flash"),
			BaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 90*time.Second),
			RatePerSecond: getEnvAsFloat("LLM_RATE_PER_SECOND", 2),
		},
		Jobs: JobsConfig{
			Inline:       getEnvAsBool("JOBS_INLINE", true),
			Workers:      getEnvAsInt("JOBS_WORKERS", 4),
			PollInterval: getEnvAsDuration("JOBS_POLL_INTERVAL", 2*time.Second),
			MaxAttempts:  getEnvAsInt("JOBS_MAX_ATTEMPTS", 3),
			StaleAfter:   getEnvAsDuration("JOBS_STALE_AFTER", 10*time.Minute),
			SweepSpec:    getEnv("JOBS_SWEEP_SPEC", "@every 1m"),
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "lux-biz-optimizer"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
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

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	switch c.Auth.Mode {
	case AuthModeFirebase:
		if c.Auth.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required when AUTH_MODE=firebase")
		}
	case AuthModeHMAC:
		if c.Auth.HMACSecret == "" {
			return fmt.Errorf("AUTH_HMAC_SECRET is required when AUTH_MODE=hmac")
		}
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=hmac is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	switch c.LLM.Provider {
	case LLMProviderGemini, LLMProviderOpenAI:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}

	if c.Jobs.Workers < 1 {
		return fmt.Errorf("JOBS_WORKERS must be at least 1")
	}
	if c.Jobs.MaxAttempts < 1 {
		return fmt.Errorf("JOBS_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
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
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
