package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dgallion1/resumemd/internal/render"
)

// MaxFetchRetries bounds fetch_retries; higher values are clamped.
const MaxFetchRetries = 10

type Config struct {
	Port string

	// Résumé source: a file path or http(s) URL
	Source      string
	SourceToken string

	// Auth for the reload endpoint; empty disables it
	APIKey string

	// Reloading
	ReloadInterval time.Duration
	FetchRetries   int
	StatsWindow    time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Theme preference database lives here
	DataDir string

	LogLevel string

	Render render.Config
}

type Option struct {
	Key     string
	Default any
	Comment string
}

// Options lists every key with its default and meaning.
func Options() []Option {
	return []Option{
		{Key: "port", Default: "8090", Comment: "HTTP listen port"},
		{Key: "source", Default: "resume.md", Comment: "Résumé markdown: file path or http(s) URL"},
		{Key: "source_token", Default: "", Comment: "Bearer token sent when source is a URL"},
		{Key: "api_key", Default: "", Comment: "Bearer token for POST /api/resume/reload; empty disables it"},
		{Key: "reload_interval", Default: "5m", Comment: "How often the source is re-read; 0 disables polling"},
		{Key: "fetch_retries", Default: 3, Comment: "Attempts per load for transient HTTP failures, at most 10"},
		{Key: "max_upload_bytes", Default: int64(1 << 20), Comment: "Body limit for /api/parse and /api/render"},
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/resumemd.db"},
		{Key: "log_level", Default: "info", Comment: "debug, info, warn or error"},
		{Key: "stats_window", Default: "1h", Comment: "Rolling window for load latency stats"},
		{Key: "render.gfm", Default: true, Comment: "GitHub flavored markdown (tables, strikethrough)"},
		{Key: "render.hard_wraps", Default: true, Comment: "Single newlines become <br>"},
		{Key: "render.linkify", Default: true, Comment: "Bare URLs become links"},
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// A config file set on v with SetConfigFile must exist; otherwise the
// search paths are optional.
func Load(v *viper.Viper) (Config, error) {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("resumemd")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "resumemd"))
		}
		v.AddConfigPath(".")
	}

	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("resumemd")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		Port:           v.GetString("port"),
		Source:         strings.TrimSpace(v.GetString("source")),
		SourceToken:    v.GetString("source_token"),
		APIKey:         v.GetString("api_key"),
		ReloadInterval: v.GetDuration("reload_interval"),
		FetchRetries:   v.GetInt("fetch_retries"),
		StatsWindow:    v.GetDuration("stats_window"),
		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
		DataDir:        expandHome(v.GetString("data_dir")),
		LogLevel:       v.GetString("log_level"),
		Render: render.Config{
			GFM:       v.GetBool("render.gfm"),
			HardWraps: v.GetBool("render.hard_wraps"),
			Linkify:   v.GetBool("render.linkify"),
		},
	}

	if cfg.FetchRetries <= 0 {
		cfg.FetchRetries = 1
	}
	if cfg.FetchRetries > MaxFetchRetries {
		cfg.FetchRetries = MaxFetchRetries
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 1 << 20
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("port is required"))
	}
	if c.Source == "" {
		errs = append(errs, fmt.Errorf("source is required"))
	}
	if c.FetchRetries > MaxFetchRetries {
		errs = append(errs, fmt.Errorf("fetch_retries must be at most %d", MaxFetchRetries))
	}
	if c.ReloadInterval < 0 {
		errs = append(errs, fmt.Errorf("reload_interval must not be negative"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DBPath is the theme preference database file.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "resumemd.db")
}

// ParseLevel maps a log_level value onto slog.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: want debug, info, warn or error", s)
	}
	return l, nil
}

// defaultDataDir resolves $XDG_DATA_HOME/resumemd or ~/.local/share/resumemd.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "resumemd")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "resumemd")
}

func expandHome(dir string) string {
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}
