// Package config loads the client's settings from an optional YAML file and the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultAPIURL is the production API.
const DefaultAPIURL = "https://api.pasarkampus.id"

// Config holds every setting the client reads at start-up.
type Config struct {
	APIURL       string        `yaml:"api_url" env:"PASAR_API_URL" env-default:"https://api.pasarkampus.id"`
	BaseURL      string        `yaml:"base_url" env:"PASAR_BASE_URL"`
	Home         string        `yaml:"home" env:"PASAR_HOME"`
	Token        string        `yaml:"-" env:"PASAR_TOKEN"`
	LogLevel     string        `yaml:"log_level" env:"PASAR_LOG_LEVEL" env-default:"info"`
	PollInterval time.Duration `yaml:"poll_interval" env:"PASAR_POLL_INTERVAL" env-default:"30s"`
	HTTPTimeout  time.Duration `yaml:"http_timeout" env:"PASAR_HTTP_TIMEOUT" env-default:"30s"`
}

// Load reads PASAR_CONFIG when set, then applies environment overrides and defaults.
func Load() (*Config, error) {
	var cfg Config
	if path := os.Getenv("PASAR_CONFIG"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read env: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	if c.BaseURL == "" {
		c.BaseURL = siteURL(c.APIURL)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home dir: %w", err)
		}
		c.Home = filepath.Join(home, ".pasar")
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
	return nil
}

// siteURL derives the web origin from the API origin: api.example.id -> example.id.
func siteURL(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil {
		return apiURL
	}
	host, port := u.Hostname(), u.Port()
	if strings.HasPrefix(host, "api.") {
		u.Host = strings.TrimPrefix(host, "api.")
		if port != "" {
			u.Host = net.JoinHostPort(u.Host, port)
		}
	}
	return u.String()
}

// LogPath is where the TUI writes its log; the terminal itself is taken.
func (c *Config) LogPath() string {
	return filepath.Join(c.Home, "pasar.log")
}
