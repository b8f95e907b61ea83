// Package config resolves menucal settings from defaults, an optional YAML file
// and the environment (including a .env file in the working directory).
//
// Precedence, lowest first: built-in defaults, config file, environment.
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Istanbul must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL    = "https://kafeterya.metu.edu.tr/"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 2
	DefaultDataDir    = "~/.local/share/menucal"
	DefaultTimezone   = "Europe/Istanbul"
	DefaultLogLevel   = "info"
	DefaultConfigPath = "~/.config/menucal/config.yaml"

	envPrefix = "MENUCAL_"
)

// Config holds the resolved settings.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	DataDir    string
	Timezone   string
	LogLevel   string
}

// FileConfig is the on-disk YAML schema.
type FileConfig struct {
	Site struct {
		BaseURL    string        `yaml:"baseURL"`
		UserAgent  string        `yaml:"userAgent"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries *int          `yaml:"maxRetries"`
	} `yaml:"site"`

	Storage struct {
		DataDir string `yaml:"dataDir"`
	} `yaml:"storage"`

	Timezone string `yaml:"timezone"`
	LogLevel string `yaml:"logLevel"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		UserAgent:  DefaultUserAgent,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		DataDir:    DefaultDataDir,
		Timezone:   DefaultTimezone,
		LogLevel:   DefaultLogLevel,
	}
}

// Load resolves the configuration. An empty path falls back to DefaultConfigPath
// when that file exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	path, err := ExpandHome(path)
	if err != nil {
		return cfg, err
	}

	fc, err := LoadFile(path)
	switch {
	case err == nil:
		cfg.ApplyFile(fc)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("loading config file: %w", err)
	}

	if err := LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are ignored and existing variables are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyFile overlays every value set in fc.
func (c *Config) ApplyFile(fc FileConfig) {
	if fc.Site.BaseURL != "" {
		c.BaseURL = fc.Site.BaseURL
	}
	if fc.Site.UserAgent != "" {
		c.UserAgent = fc.Site.UserAgent
	}
	if fc.Site.Timeout > 0 {
		c.Timeout = fc.Site.Timeout
	}
	if fc.Site.MaxRetries != nil {
		c.MaxRetries = *fc.Site.MaxRetries
	}
	if fc.Storage.DataDir != "" {
		c.DataDir = fc.Storage.DataDir
	}
	if fc.Timezone != "" {
		c.Timezone = fc.Timezone
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
}

// ApplyEnv overlays MENUCAL_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	get := func(key string) string {
		return strings.TrimSpace(getenv(envPrefix + key))
	}

	if v := get("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := get("USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := get("TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}
	if v := get("MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_RETRIES: %w", envPrefix, err)
		}
		c.MaxRetries = n
	}
	if v := get("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := get("TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := get("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL: %q (must be http or https)", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
