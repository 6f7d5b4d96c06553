package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kevinmichaelchen/repo-radar/internal/logger"
	"github.com/kevinmichaelchen/repo-radar/internal/models"
)

type Config struct {
	GitHubToken   string
	GitHubBaseURL string
	HTTPTimeout   time.Duration

	OutputPath     string
	CategoriesFile string
	PerPage        int
	MinStars       int

	RequestInterval   time.Duration
	AdaptiveRateLimit bool

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken:   os.Getenv("DASHBOARD_TOKEN"),
		GitHubBaseURL: os.Getenv("GITHUB_API_BASE"),
		HTTPTimeout:   envDuration("HTTP_TIMEOUT", 30*time.Second),

		OutputPath:     os.Getenv("OUTPUT_PATH"),
		CategoriesFile: os.Getenv("CATEGORIES_FILE"),
		PerPage:        envInt("PER_PAGE", 100),
		MinStars:       envInt("MIN_STARS", 10),

		RequestInterval:   envDuration("REQUEST_INTERVAL", 2*time.Second),
		AdaptiveRateLimit: envBool("ADAPTIVE_RATE_LIMIT", false),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: os.Getenv("LOG_FORMAT"),
	}

	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	cfg.GitHubBaseURL = strings.TrimSuffix(cfg.GitHubBaseURL, "/")
	if cfg.GitHubBaseURL == "" {
		cfg.GitHubBaseURL = "https://api.github.com"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "data.json"
	}
	if cfg.PerPage < 1 || cfg.PerPage > 100 {
		logger.Get().Warn().Int("per_page", cfg.PerPage).Msg("PER_PAGE out of range 1..100; using 100")
		cfg.PerPage = 100
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	return cfg
}

// Categories returns the categories from CategoriesFile, or the built-in
// defaults when no file is configured.
func (c *Config) Categories() ([]models.Category, error) {
	if c.CategoriesFile == "" {
		return DefaultCategories(), nil
	}
	return LoadCategories(c.CategoriesFile)
}

func envInt(key string, def int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		logger.Get().Warn().Str("key", key).Str("value", s).Int("default", def).Msg("invalid int; using default")
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		logger.Get().Warn().Str("key", key).Str("value", s).Bool("default", def).Msg("invalid bool; using default")
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil || v < 0 {
		logger.Get().Warn().Str("key", key).Str("value", s).Dur("default", def).Msg("invalid duration (e.g. 500ms, 2s); using default")
		return def
	}
	return v
}
