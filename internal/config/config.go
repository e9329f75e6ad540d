package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	RedisURL    string
	LogLevel    string
	Environment string
	// CORSOrigins lists allowed origins; a single "*" allows any.
	CORSOrigins []string

	CacheTTL time.Duration

	// TopicPatternsFile is an optional YAML pattern table replacing the built-in one.
	TopicPatternsFile string
	// PatternReloadInterval polls TopicPatternsFile for changes; 0 disables polling.
	PatternReloadInterval time.Duration

	ViewsBenchmark           float64
	SubscribersBenchmark     float64
	ChannelAvgViewsBenchmark float64
	AnalysisMaxConcurrency   int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"*"}),

		CacheTTL: getEnvAsDuration("CACHE_TTL", time.Hour),

		TopicPatternsFile:     getEnv("TOPIC_PATTERNS_FILE", ""),
		PatternReloadInterval: getEnvAsDuration("TOPIC_PATTERNS_RELOAD", 0),

		ViewsBenchmark:           getEnvAsFloat("VIEWS_BENCHMARK", 1e9),
		SubscribersBenchmark:     getEnvAsFloat("SUBSCRIBERS_BENCHMARK", 2e8),
		ChannelAvgViewsBenchmark: getEnvAsFloat("CHANNEL_AVG_VIEWS_BENCHMARK", 5e7),
		AnalysisMaxConcurrency:   getEnvAsInt("ANALYSIS_MAX_CONCURRENCY", 4),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.PatternReloadInterval < 0 {
		return fmt.Errorf("TOPIC_PATTERNS_RELOAD must not be negative, got %s", c.PatternReloadInterval)
	}
	if c.ViewsBenchmark <= 0 || c.SubscribersBenchmark <= 0 || c.ChannelAvgViewsBenchmark <= 0 {
		return errors.New("benchmarks must be positive")
	}
	if c.AnalysisMaxConcurrency < 1 {
		return fmt.Errorf("ANALYSIS_MAX_CONCURRENCY must be at least 1, got %d", c.AnalysisMaxConcurrency)
	}
	return nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

// getEnvAsSlice splits a comma-separated variable, dropping empty items.
func getEnvAsSlice(key string, fallback []string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
