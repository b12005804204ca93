package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/statementform/internal/download"
	"github.com/cleared-dev/statementform/internal/notice"
	"github.com/cleared-dev/statementform/internal/uploader"
)

// FileName is the default config file name.
const FileName = "statementform.yaml"

// Environment variables that override file settings.
const (
	EnvEndpoint  = "STATEMENTFORM_ENDPOINT"
	EnvOutputDir = "STATEMENTFORM_OUTPUT_DIR"
	EnvAddr      = "STATEMENTFORM_ADDR"
)

// Config represents statementform.yaml.
type Config struct {
	Endpoint string       `yaml:"endpoint"`
	Output   OutputConfig `yaml:"output"`
	Notices  NoticeConfig `yaml:"notices"`
	Server   ServerConfig `yaml:"server"`
}

// OutputConfig controls where processed statements are saved by the CLI.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// NoticeConfig controls notice display.
type NoticeConfig struct {
	Seconds int `yaml:"seconds"`
}

// ServerConfig controls the local web form.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	DownloadTTLSeconds int    `yaml:"download_ttl_seconds"`
}

// NoticeDuration returns the notice display interval.
func (c *Config) NoticeDuration() time.Duration {
	return time.Duration(c.Notices.Seconds) * time.Second
}

// DownloadTTL returns how long an unclaimed web download is kept.
func (c *Config) DownloadTTL() time.Duration {
	return time.Duration(c.Server.DownloadTTLSeconds) * time.Second
}

// Default returns a Config matching the processing service's stock deployment.
func Default() *Config {
	return &Config{
		Endpoint: uploader.DefaultEndpoint,
		Output:   OutputConfig{Dir: "."},
		Notices:  NoticeConfig{Seconds: int(notice.DefaultDuration / time.Second)},
		Server: ServerConfig{
			Addr:               "127.0.0.1:3000",
			DownloadTTLSeconds: int(download.DefaultTTL / time.Second),
		},
	}
}

// Load reads a statementform.yaml file from disk. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads path if it exists (defaults otherwise), then applies .env and
// environment overrides.
func Resolve(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("config: endpoint is required")
	}
	if c.Notices.Seconds <= 0 {
		return fmt.Errorf("config: notices.seconds must be positive, got %d", c.Notices.Seconds)
	}
	if c.Server.DownloadTTLSeconds <= 0 {
		return fmt.Errorf("config: server.download_ttl_seconds must be positive, got %d", c.Server.DownloadTTLSeconds)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
