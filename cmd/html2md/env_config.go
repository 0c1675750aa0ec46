package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-html2md/internal/config"
)

// envPrefix is shared by all html2md environment variables.
const envPrefix = "HTML2MD_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // HTML2MD_CONFIG: config file path
	Timeout    time.Duration // HTML2MD_TIMEOUT: browser rendering timeout
	Workers    int           // HTML2MD_WORKERS: parallel workers

	// Tier 2 - I/O
	InputDir  string // HTML2MD_INPUT_DIR: default input directory
	OutputDir string // HTML2MD_OUTPUT_DIR: default output directory

	// Tier 3 - Extraction
	ArticleSelector string // HTML2MD_ARTICLE_SELECTOR: article root selector
	TitleSelector   string // HTML2MD_TITLE_SELECTOR: title selector
	BaseURL         string // HTML2MD_BASE_URL: base for relative links
}

// knownEnvVars lists valid HTML2MD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"HTML2MD_CONFIG":  true,
	"HTML2MD_TIMEOUT": true,
	"HTML2MD_WORKERS": true,
	// Tier 2 - I/O
	"HTML2MD_INPUT_DIR":  true,
	"HTML2MD_OUTPUT_DIR": true,
	// Tier 3 - Extraction
	"HTML2MD_ARTICLE_SELECTOR": true,
	"HTML2MD_TITLE_SELECTOR":   true,
	"HTML2MD_BASE_URL":         true,
	// Read by doctor
	"HTML2MD_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:      os.Getenv("HTML2MD_CONFIG"),
		InputDir:        os.Getenv("HTML2MD_INPUT_DIR"),
		OutputDir:       os.Getenv("HTML2MD_OUTPUT_DIR"),
		ArticleSelector: os.Getenv("HTML2MD_ARTICLE_SELECTOR"),
		TitleSelector:   os.Getenv("HTML2MD_TITLE_SELECTOR"),
		BaseURL:         os.Getenv("HTML2MD_BASE_URL"),
	}

	if timeout := os.Getenv("HTML2MD_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("HTML2MD_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized HTML2MD_* variables.
// Helps catch typos like HTML2MD_OUTPUTDIR instead of HTML2MD_OUTPUT_DIR.
func warnUnknownEnvVars(logger logrus.FieldLogger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			logger.WithField("variable", name).Warn("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags; timeout and workers are
// resolved separately)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.ArticleSelector != "" && cfg.Selectors.Article == "" {
		cfg.Selectors.Article = env.ArticleSelector
	}
	if env.TitleSelector != "" && cfg.Selectors.Title == "" {
		cfg.Selectors.Title = env.TitleSelector
	}
	if env.BaseURL != "" && cfg.Links.BaseURL == "" {
		cfg.Links.BaseURL = env.BaseURL
	}
}
