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
	Upstream UpstreamConfig
	App      AppConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type UpstreamConfig struct {
	BehindTheNameURL string
	BehindTheNameKey string
	NamsorURL        string
	NamsorKey        string
	Timeout          time.Duration
	RateLimit        float64 // requests per second against the name database
	Burst            int
	MaxDetailLookups int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	ServiceName string
}

type JobsConfig struct {
	MetricsReportSchedule string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Upstream: UpstreamConfig{
			BehindTheNameURL: strings.TrimRight(getEnv("BEHINDTHENAME_BASE_URL", "https://www.behindthename.com/api"), "/"),
			BehindTheNameKey: getEnv("BEHINDTHENAME_API_KEY", ""),
			NamsorURL:        strings.TrimRight(getEnv("NAMSOR_BASE_URL", "https://v2.namsor.com/NamSorAPIv2"), "/"),
			NamsorKey:        getEnv("NAMSOR_API_KEY", ""),
			Timeout:          getEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second),
			RateLimit:        getEnvAsFloat("UPSTREAM_RATE_LIMIT", 2),
			Burst:            getEnvAsInt("UPSTREAM_BURST", 4),
			MaxDetailLookups: getEnvAsInt("MAX_DETAIL_LOOKUPS", 3),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "namegen-backend"),
		},
		Jobs: JobsConfig{
			MetricsReportSchedule: getEnv("METRICS_REPORT_SCHEDULE", "@hourly"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings. NAMSOR_API_KEY is optional: the
// name-origin endpoint reports its absence per request.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Upstream.BehindTheNameKey == "" {
		return fmt.Errorf("BEHINDTHENAME_API_KEY is required")
	}

	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	if c.Upstream.RateLimit <= 0 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must be positive")
	}

	if c.Upstream.Burst < 1 {
		return fmt.Errorf("UPSTREAM_BURST must be at least 1")
	}

	return nil
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
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
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
