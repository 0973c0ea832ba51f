package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the goksori clients.
type Config struct {
	API     API     `yaml:"api"`
	View    View    `yaml:"view"`
	Refresh Refresh `yaml:"refresh"`
	Share   Share   `yaml:"share"`
	Web     Web     `yaml:"web"`
	Logging Logging `yaml:"logging"`
}

// API holds the backend endpoint.
type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// View holds list and detail presentation parameters.
type View struct {
	PageSize       int           `yaml:"page_size"`
	DefaultSort    string        `yaml:"default_sort"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
	HistoryDays    int           `yaml:"history_days"`
	ToastDuration  time.Duration `yaml:"toast_duration"`
}

// Refresh holds the countdown and reload timer periods.
type Refresh struct {
	CountdownInterval time.Duration `yaml:"countdown_interval"`
	ReloadInterval    time.Duration `yaml:"reload_interval"`
	BoundaryHours     int           `yaml:"boundary_hours"`
}

// Share configures the social SDK and the public site used in links.
type Share struct {
	SiteURL          string `yaml:"site_url"`
	KakaoAccessToken string `yaml:"kakao_access_token"`
}

// Web holds the listener of the web frontend.
type Web struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL: "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		View: View{
			PageSize:       50,
			DefaultSort:    "score_desc",
			SearchDebounce: 400 * time.Millisecond,
			HistoryDays:    30,
			ToastDuration:  2500 * time.Millisecond,
		},
		Refresh: Refresh{
			CountdownInterval: time.Minute,
			ReloadInterval:    4 * time.Hour,
			BoundaryHours:     4,
		},
		Share: Share{
			SiteURL: "https://goksori.com",
		},
		Web: Web{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/goksori/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "goksori", "config.yaml")
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path on top of the
// defaults and then applies environment variable overrides. An empty path
// means DefaultPath, which is allowed to be missing.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	applyEnvOverrides(cfg)
	cfg.normalize()

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GOKSORI_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	if v := os.Getenv("GOKSORI_SITE_URL"); v != "" {
		cfg.Share.SiteURL = v
	}

	if v := os.Getenv("KAKAO_ACCESS_TOKEN"); v != "" {
		cfg.Share.KakaoAccessToken = v
	}

	if v := os.Getenv("GOKSORI_WEB_HOST"); v != "" {
		cfg.Web.Host = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// normalize replaces unusable values left by a partial file with defaults.
func (c *Config) normalize() {
	d := Default()
	if c.View.PageSize <= 0 {
		c.View.PageSize = d.View.PageSize
	}
	if c.View.DefaultSort == "" {
		c.View.DefaultSort = d.View.DefaultSort
	}
	if c.View.SearchDebounce <= 0 {
		c.View.SearchDebounce = d.View.SearchDebounce
	}
	if c.View.HistoryDays <= 0 {
		c.View.HistoryDays = d.View.HistoryDays
	}
	if c.View.ToastDuration <= 0 {
		c.View.ToastDuration = d.View.ToastDuration
	}
	if c.Refresh.CountdownInterval <= 0 {
		c.Refresh.CountdownInterval = d.Refresh.CountdownInterval
	}
	if c.Refresh.ReloadInterval <= 0 {
		c.Refresh.ReloadInterval = d.Refresh.ReloadInterval
	}
	if c.Refresh.BoundaryHours <= 0 || 24%c.Refresh.BoundaryHours != 0 {
		c.Refresh.BoundaryHours = d.Refresh.BoundaryHours
	}
}
