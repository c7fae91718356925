// Package config loads boardcheck configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all boardcheck configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Target application
	App AppConfig `yaml:"app"`

	// Login credentials
	Auth AuthConfig `yaml:"auth"`

	// Browser settings
	Browser BrowserConfig `yaml:"browser"`

	// Suite execution
	Suite SuiteConfig `yaml:"suite"`

	// Run history store
	Report ReportConfig `yaml:"report"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AppConfig describes the application under test.
type AppConfig struct {
	BaseURL string `yaml:"base_url"`
}

// AuthConfig holds the login credentials for the application under test.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// BrowserConfig configures the Chrome instance.
type BrowserConfig struct {
	DebuggerURL         string   `yaml:"debugger_url"`
	Launch              []string `yaml:"launch"`
	Headless            bool     `yaml:"headless"`
	ViewportWidth       int      `yaml:"viewport_width"`
	ViewportHeight      int      `yaml:"viewport_height"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms"`
	SessionStore        string   `yaml:"session_store"`
}

// SuiteConfig configures case execution.
type SuiteConfig struct {
	CasesPath   string `yaml:"cases_path"`
	Parallelism int    `yaml:"parallelism"`
	CaseTimeout string `yaml:"case_timeout"`
}

// ReportConfig configures the run history store. An empty database path
// disables history recording.
type ReportConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "boardcheck",
		Version: "1.0.0",

		App: AppConfig{
			BaseURL: "http://localhost:3000",
		},

		Browser: BrowserConfig{
			Headless:            true,
			ViewportWidth:       1920,
			ViewportHeight:      1080,
			NavigationTimeoutMs: 30000,
			SessionStore:        filepath.Join(".boardcheck", "sessions.json"),
		},

		Suite: SuiteConfig{
			CasesPath:   filepath.Join("testdata", "cases.json"),
			Parallelism: 1,
			CaseTimeout: "60s",
		},

		Report: ReportConfig{
			DatabasePath: filepath.Join(".boardcheck", "history.db"),
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. Returns defaults if the file
// does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("BOARDCHECK_BASE_URL"); url != "" {
		c.App.BaseURL = url
	}
	if user := os.Getenv("BOARDCHECK_USERNAME"); user != "" {
		c.Auth.Username = user
	}
	if pass := os.Getenv("BOARDCHECK_PASSWORD"); pass != "" {
		c.Auth.Password = pass
	}
	if headless := os.Getenv("BOARDCHECK_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.EqualFold(headless, "true") || headless == "1"
	}
	if url := os.Getenv("BOARDCHECK_DEBUGGER_URL"); url != "" {
		c.Browser.DebuggerURL = url
	}
	if path := os.Getenv("BOARDCHECK_DB"); path != "" {
		c.Report.DatabasePath = path
	}
}

// Timeout returns the per-case timeout as a duration.
func (c *SuiteConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(c.CaseTimeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Validate checks that required settings are present before a run.
func (c *Config) Validate() error {
	if c.App.BaseURL == "" {
		return fmt.Errorf("app.base_url is required")
	}
	if c.Auth.Username == "" || c.Auth.Password == "" {
		return fmt.Errorf("auth.username and auth.password are required (set BOARDCHECK_USERNAME/BOARDCHECK_PASSWORD)")
	}
	if c.Suite.Parallelism < 1 {
		return fmt.Errorf("suite.parallelism must be at least 1")
	}
	return nil
}
