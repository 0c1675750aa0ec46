// Package config loads the YAML configuration of the html2md CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-html2md/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// MaxFileSize limits config input to prevent memory exhaustion (1MB).
const MaxFileSize = 1 << 20

// DirName is the directory searched under the user config directory.
const DirName = "go-html2md"

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxSelectorLength = 500  // CSS selector group
	MaxURLLength      = 2048 // Browser limit
	MaxModeLength     = 20   // "verbatim", "normalize", "detect"
)

// Output naming modes.
const (
	NamingTitle  = "title"  // Derived from the article title
	NamingSource = "source" // Input base name with a .md extension
)

// Config holds all configuration for HTML-to-Markdown conversion.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Selectors SelectorsConfig `yaml:"selectors"`
	Links     LinksConfig     `yaml:"links"`
	Tables    TablesConfig    `yaml:"tables"`
	Code      CodeConfig      `yaml:"code"`
	Render    RenderConfig    `yaml:"render"`
	Preview   PreviewConfig   `yaml:"preview"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Naming     string `yaml:"naming"`     // "title" (default) or "source"
}

// SelectorsConfig overrides the CSS selectors locating the article.
type SelectorsConfig struct {
	Article string `yaml:"article"` // Empty = built-in default
	Title   string `yaml:"title"`   // Empty = built-in default
}

// LinksConfig defines link resolution options.
type LinksConfig struct {
	BaseURL string `yaml:"baseURL"` // Absolute URL relative links resolve against
}

// TablesConfig defines table output options.
type TablesConfig struct {
	CellLinks string `yaml:"cellLinks"` // "verbatim" (default) or "normalize"
	Align     bool   `yaml:"align"`     // Pad columns to a common width
}

// CodeConfig defines fenced code block options.
type CodeConfig struct {
	Language string `yaml:"language"` // "none" (default), "class", "detect"
}

// RenderConfig defines headless browser rendering options.
type RenderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Timeout string `yaml:"timeout"` // Go duration, e.g. 30s, 2m (empty = library default)
}

// TimeoutDuration parses Timeout. An empty value returns 0.
func (r RenderConfig) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout %q: %v", ErrInvalidValue, r.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout must be positive, got %v", ErrInvalidValue, d)
	}
	return d, nil
}

// PreviewConfig defines HTML preview options.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"` // Write a .html preview next to each output
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.naming", c.Output.Naming, MaxModeLength},
		{"selectors.article", c.Selectors.Article, MaxSelectorLength},
		{"selectors.title", c.Selectors.Title, MaxSelectorLength},
		{"links.baseURL", c.Links.BaseURL, MaxURLLength},
		{"tables.cellLinks", c.Tables.CellLinks, MaxModeLength},
		{"code.language", c.Code.Language, MaxModeLength},
		{"render.timeout", c.Render.Timeout, MaxModeLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := validateOneOf("output.naming", c.Output.Naming, NamingTitle, NamingSource); err != nil {
		return err
	}
	if err := validateOneOf("tables.cellLinks", c.Tables.CellLinks, "verbatim", "normalize"); err != nil {
		return err
	}
	if err := validateOneOf("code.language", c.Code.Language, "none", "class", "detect"); err != nil {
		return err
	}
	if _, err := c.Render.TimeoutDuration(); err != nil {
		return err
	}
	if c.Links.BaseURL != "" && !fileutil.IsURL(c.Links.BaseURL) {
		return fmt.Errorf("%w: links.baseURL %q (must start with http:// or https://)", ErrInvalidValue, c.Links.BaseURL)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateOneOf accepts an empty value or one of allowed (case-insensitive).
func validateOneOf(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns a configuration that reproduces the library defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Naming: NamingTitle},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data. Unknown keys are rejected.
// Unset fields keep DefaultConfig values.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigTooLarge, len(data), MaxFileSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-html2md/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, DirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Tried: triedPaths}
}

// NotFoundError reports the locations searched for a named config.
// It matches ErrConfigNotFound with errors.Is.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Is reports whether target is ErrConfigNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}
