package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if cfg.Output.Naming != NamingTitle {
		t.Errorf("Output.Naming = %q, want %q", cfg.Output.Naming, NamingTitle)
	}
	if cfg.Selectors.Article != "" || cfg.Selectors.Title != "" {
		t.Errorf("Selectors = %+v, want empty (library defaults)", cfg.Selectors)
	}
	if cfg.Render.Enabled {
		t.Error("Render.Enabled = true, want false")
	}
	if cfg.Preview.Enabled {
		t.Error("Preview.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{name: "empty value is valid", value: "", maxLength: 10},
		{name: "value at limit is valid", value: "1234567890", maxLength: 10},
		{name: "value under limit is valid", value: "12345", maxLength: 10},
		{name: "value over limit is invalid", value: "12345678901", maxLength: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test", tt.value, tt.maxLength)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("error should wrap ErrFieldTooLong, got %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "all fields set",
			mutate: func(c *Config) { *c = *fullConfig() },
		},
		{
			name:   "modes are case-insensitive",
			mutate: func(c *Config) { c.Tables.CellLinks = "Normalize"; c.Code.Language = "DETECT" },
		},
		{
			name:    "unknown naming",
			mutate:  func(c *Config) { c.Output.Naming = "slug" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown cell links",
			mutate:  func(c *Config) { c.Tables.CellLinks = "strip" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown code language",
			mutate:  func(c *Config) { c.Code.Language = "auto" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Render.Timeout = "soon" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Render.Timeout = "-5s" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "relative base URL",
			mutate:  func(c *Config) { c.Links.BaseURL = "/docs/" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "selector too long",
			mutate:  func(c *Config) { c.Selectors.Article = strings.Repeat("a", MaxSelectorLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "base URL too long",
			mutate:  func(c *Config) { c.Links.BaseURL = "https://x.example/" + strings.Repeat("p", MaxURLLength) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "path too long",
			mutate:  func(c *Config) { c.Output.DefaultDir = strings.Repeat("d", MaxPathLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{timeout: "", want: 0},
		{timeout: "45s", want: 45 * time.Second},
		{timeout: "2m", want: 2 * time.Minute},
		{timeout: "0s", wantErr: true},
		{timeout: "forever", wantErr: true},
	}

	for _, tt := range tests {
		got, err := RenderConfig{Timeout: tt.timeout}.TimeoutDuration()
		if (err != nil) != tt.wantErr {
			t.Errorf("TimeoutDuration(%q) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("TimeoutDuration(%q) = %v, want %v", tt.timeout, got, tt.want)
		}
	}
}

// fullConfig returns a config with every field set to a valid value.
func fullConfig() *Config {
	return &Config{
		Input:     InputConfig{DefaultDir: "./pages"},
		Output:    OutputConfig{DefaultDir: "./out", Naming: NamingSource},
		Selectors: SelectorsConfig{Article: "article .content", Title: "h1"},
		Links:     LinksConfig{BaseURL: "https://kb.example/"},
		Tables:    TablesConfig{CellLinks: "normalize", Align: true},
		Code:      CodeConfig{Language: "class"},
		Render:    RenderConfig{Enabled: true, Timeout: "45s"},
		Preview:   PreviewConfig{Enabled: true},
	}
}

const fullYAML = `input:
  defaultDir: ./pages
output:
  defaultDir: ./out
  naming: source
selectors:
  article: article .content
  title: h1
links:
  baseURL: https://kb.example/
tables:
  cellLinks: normalize
  align: true
code:
  language: class
render:
  enabled: true
  timeout: 45s
preview:
  enabled: true
`

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("every field", func(t *testing.T) {
		t.Parallel()

		cfg, err := Parse([]byte(fullYAML))
		if err != nil {
			t.Fatalf("Parse() unexpected error: %v", err)
		}
		if *cfg != *fullConfig() {
			t.Errorf("Parse() = %+v, want %+v", *cfg, *fullConfig())
		}
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Parse([]byte("\n  \n"))
		if err != nil {
			t.Fatalf("Parse() unexpected error: %v", err)
		}
		if *cfg != *DefaultConfig() {
			t.Errorf("Parse() = %+v, want defaults", *cfg)
		}
	})

	t.Run("partial document keeps other defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Parse([]byte("tables:\n  align: true\n"))
		if err != nil {
			t.Fatalf("Parse() unexpected error: %v", err)
		}
		if !cfg.Tables.Align {
			t.Error("Tables.Align = false, want true")
		}
		if cfg.Output.Naming != NamingTitle {
			t.Errorf("Output.Naming = %q, want %q", cfg.Output.Naming, NamingTitle)
		}
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()

		_, err := Parse(make([]byte, MaxFileSize+1))
		if !errors.Is(err, ErrConfigTooLarge) {
			t.Errorf("Parse() error = %v, want ErrConfigTooLarge", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		_, err := Parse([]byte("code:\n  language: cobol-guess\n"))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Parse() error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		if err := os.WriteFile(configPath, []byte(fullYAML), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Selectors.Article != "article .content" {
			t.Errorf("Selectors.Article = %q, want %q", cfg.Selectors.Article, "article .content")
		}
		if cfg.Links.BaseURL != "https://kb.example/" {
			t.Errorf("Links.BaseURL = %q, want %q", cfg.Links.BaseURL, "https://kb.example/")
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("selectors: [unclosed"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
		if !strings.Contains(err.Error(), configPath) {
			t.Errorf("error %q should name the file", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "unknown.yaml")
		content := "tables:\n  align: true\nstyle: technical\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores file permissions")
		}

		dir := t.TempDir()
		configPath := filepath.Join(dir, "unreadable.yaml")
		if err := os.WriteFile(configPath, []byte("tables:\n  align: true\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Chmod(configPath, 0000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer os.Chmod(configPath, 0600)

		_, err := LoadConfig(configPath)
		if err == nil {
			t.Fatal("expected error for unreadable file")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Error("error should not be ErrConfigNotFound for permission error")
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "kb.yml"), []byte("code:\n  language: detect\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Chdir(dir)

		cfg, err := LoadConfig("kb")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Code.Language != "detect" {
			t.Errorf("Code.Language = %q, want %q", cfg.Code.Language, "detect")
		}
	})

	t.Run("config name resolves in user config directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
		t.Chdir(t.TempDir())

		userDir, err := os.UserConfigDir()
		if err != nil {
			t.Skipf("no user config dir: %v", err)
		}
		cfgDir := filepath.Join(userDir, DirName)
		if err := os.MkdirAll(cfgDir, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(filepath.Join(cfgDir, "team.yaml"), []byte("render:\n  enabled: true\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig("team")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Render.Enabled {
			t.Error("Render.Enabled = false, want true")
		}
	})

	t.Run("unknown name reports the paths tried", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("does-not-exist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}

		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("error = %T, want *NotFoundError", err)
		}
		if nf.Name != "does-not-exist" {
			t.Errorf("Name = %q, want %q", nf.Name, "does-not-exist")
		}
		if len(nf.Tried) < 2 || nf.Tried[0] != "does-not-exist.yaml" || nf.Tried[1] != "does-not-exist.yml" {
			t.Errorf("Tried = %v, want local .yaml and .yml first", nf.Tried)
		}
	})
}
