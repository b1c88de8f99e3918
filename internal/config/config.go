package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingDB        = errors.New("DATABASE_URL is required")
	ErrMissingAPIKey    = errors.New("SERPAPI_API_KEY is required")
	ErrMissingAdminPass = errors.New("ADMIN_PASSWORD is required")
	ErrMissingSecret    = errors.New("SESSION_SECRET is required")
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SerpAPI  SerpAPIConfig
	Quota    QuotaConfig
	Admin    AdminConfig
	Log      LogConfig
}

type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	URL string
}

type SerpAPIConfig struct {
	APIKey       string
	BaseURL      string
	Engine       string
	Timeout      time.Duration
	ResultCount  int
	MonthlyQuota int
}

type QuotaConfig struct {
	DefaultDaily   int
	BurstPerMinute int
}

type AdminConfig struct {
	Password      string
	SessionSecret string
	SessionTTL    time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:        getEnvOrDefault("LISTEN_ADDR", ":8080"),
			CORSOrigins: splitOrigins(getEnvOrDefault("CORS_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		SerpAPI: SerpAPIConfig{
			APIKey:       os.Getenv("SERPAPI_API_KEY"),
			BaseURL:      getEnvOrDefault("SERPAPI_BASE_URL", "https://serpapi.com"),
			Engine:       getEnvOrDefault("SERPAPI_ENGINE", "google"),
			Timeout:      time.Duration(getEnvIntOrDefault("SERPAPI_TIMEOUT_SEC", 10)) * time.Second,
			ResultCount:  getEnvIntOrDefault("SERPAPI_RESULT_COUNT", 10),
			MonthlyQuota: getEnvIntOrDefault("SERPAPI_MONTHLY_QUOTA", 250),
		},
		Quota: QuotaConfig{
			DefaultDaily:   getEnvIntOrDefault("DEFAULT_DAILY_QUOTA", 25),
			BurstPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 10),
		},
		Admin: AdminConfig{
			Password:      os.Getenv("ADMIN_PASSWORD"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			SessionTTL:    time.Duration(getEnvIntOrDefault("SESSION_TTL_HOURS", 12)) * time.Hour,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDB
	}
	if c.SerpAPI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Admin.Password == "" {
		return ErrMissingAdminPass
	}
	if c.Admin.SessionSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
