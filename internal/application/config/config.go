// ABOUTME: YAML configuration parsing, environment overrides and validation
// ABOUTME: Defines listen, logging, site build settings and the optional station table
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oszuidwest/radio-site/internal/domain/station"
)

const (
	OutputServer = "server"
	OutputStatic = "static"

	AdapterCloudflare = "cloudflare"
	AdapterNode       = "node"

	InlineAlways = "always"
	InlineAuto   = "auto"
	InlineNever  = "never"

	DarkModeMedia = "media"
	DarkModeClass = "class"
)

type Config struct {
	Listen    ListenConfig      `yaml:"listen"`
	Logging   LoggingConfig     `yaml:"logging"`
	Site      SiteConfig        `yaml:"site"`
	RateLimit RateLimitConfig   `yaml:"rate_limit"`
	Stations  []station.Station `yaml:"stations"`
}

type ListenConfig struct {
	Host string `yaml:"host" env:"STATIONSITE_HOST"`
	Port int    `yaml:"port" env:"STATIONSITE_PORT"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"STATIONSITE_LOG_LEVEL"`
	JSON  bool   `yaml:"json" env:"STATIONSITE_LOG_JSON"`
}

// SiteConfig mirrors the build settings of the site. Output server serves
// pages over HTTP; static renders them to disk with the build command.
// Adapter and PlatformProxy decide which request header names the visitor.
type SiteConfig struct {
	Output            string `yaml:"output"`
	Adapter           string `yaml:"adapter"`
	PlatformProxy     bool   `yaml:"platform_proxy"`
	ImageService      string `yaml:"image_service" env:"STATIONSITE_IMAGE_SERVICE"`
	InlineStylesheets string `yaml:"inline_stylesheets" env:"STATIONSITE_INLINE_STYLESHEETS"`
	DarkMode          string `yaml:"dark_mode"`
	BaseURL           string `yaml:"base_url" env:"STATIONSITE_BASE_URL"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"STATIONSITE_RATE_LIMIT_RPM"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
		Site: SiteConfig{
			Output:            OutputServer,
			Adapter:           AdapterCloudflare,
			PlatformProxy:     true,
			ImageService:      "noop",
			InlineStylesheets: InlineAlways,
			DarkMode:          DarkModeMedia,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 600,
		},
	}
}

// Load reads path on top of Default and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that an empty path yields Default with
// environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	// env.Parse only touches fields whose variables are set. The station
	// table has no env representation, so only the scalar sections are parsed.
	for _, section := range []any{&cfg.Listen, &cfg.Logging, &cfg.Site, &cfg.RateLimit} {
		if err := env.Parse(section); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Listen.Host, c.Listen.Port)
}

// Validate reports every invalid setting at once. Station records are
// checked when the directory is built.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen.Port < 1 || c.Listen.Port > 65535 {
		errs = append(errs, fmt.Errorf("listen.port %d out of range", c.Listen.Port))
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q unknown", c.Logging.Level))
	}

	switch c.Site.Output {
	case OutputServer, OutputStatic:
	default:
		errs = append(errs, fmt.Errorf("site.output %q must be %q or %q", c.Site.Output, OutputServer, OutputStatic))
	}

	switch c.Site.Adapter {
	case AdapterCloudflare, AdapterNode:
	default:
		errs = append(errs, fmt.Errorf("site.adapter %q must be %q or %q", c.Site.Adapter, AdapterCloudflare, AdapterNode))
	}

	switch c.Site.InlineStylesheets {
	case InlineAlways, InlineAuto, InlineNever:
	default:
		errs = append(errs, fmt.Errorf("site.inline_stylesheets %q must be always, auto or never", c.Site.InlineStylesheets))
	}

	switch c.Site.DarkMode {
	case DarkModeMedia, DarkModeClass:
	default:
		errs = append(errs, fmt.Errorf("site.dark_mode %q must be %q or %q", c.Site.DarkMode, DarkModeMedia, DarkModeClass))
	}

	if c.Site.ImageService == "" {
		errs = append(errs, errors.New("site.image_service is empty"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests_per_minute %d is negative", c.RateLimit.RequestsPerMinute))
	}

	return errors.Join(errs...)
}
