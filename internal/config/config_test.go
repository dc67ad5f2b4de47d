package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.Source != "resume.md" {
		t.Errorf("expected source resume.md, got %q", cfg.Source)
	}
	if cfg.ReloadInterval != 5*time.Minute {
		t.Errorf("expected 5m reload interval, got %v", cfg.ReloadInterval)
	}
	if cfg.FetchRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.FetchRetries)
	}
	if cfg.MaxUploadBytes != 1<<20 {
		t.Errorf("expected 1MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.DataDir != filepath.Join("/tmp/xdg-data", "resumemd") {
		t.Errorf("unexpected data dir %q", cfg.DataDir)
	}
	if !cfg.Render.GFM || !cfg.Render.HardWraps || !cfg.Render.Linkify {
		t.Errorf("expected all render options on, got %+v", cfg.Render)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resumemd.yaml")
	body := "port: \"9000\"\nsource: /srv/cv.md\nrender:\n  hard_wraps: false\nfetch_retries: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RESUMEMD_PORT", "9100")
	t.Setenv("RESUMEMD_RENDER_LINKIFY", "false")

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("env should override file: expected 9100, got %q", cfg.Port)
	}
	if cfg.Source != "/srv/cv.md" {
		t.Errorf("expected source from file, got %q", cfg.Source)
	}
	if cfg.FetchRetries != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.FetchRetries)
	}
	if cfg.Render.HardWraps {
		t.Errorf("expected hard_wraps off from file")
	}
	if cfg.Render.Linkify {
		t.Errorf("expected linkify off from env")
	}
	if !cfg.Render.GFM {
		t.Errorf("expected gfm default to survive")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(v); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadClampsNonPositive(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RESUMEMD_FETCH_RETRIES", "0")
	t.Setenv("RESUMEMD_MAX_UPLOAD_BYTES", "-1")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FetchRetries != 1 {
		t.Errorf("expected retries clamped to 1, got %d", cfg.FetchRetries)
	}
	if cfg.MaxUploadBytes != 1<<20 {
		t.Errorf("expected default upload limit, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadClampsExcessiveRetries(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("RESUMEMD_FETCH_RETRIES", "1000")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FetchRetries != MaxFetchRetries {
		t.Errorf("expected retries clamped to %d, got %d", MaxFetchRetries, cfg.FetchRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("clamped config should validate, got %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	cfg := Config{ReloadInterval: -time.Second, FetchRetries: 64, LogLevel: "loud"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	msg := err.Error()
	for _, want := range []string{
		"port is required",
		"source is required",
		"reload_interval must not be negative",
		"fetch_retries must be at most 10",
		`log_level "loud"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected error to contain %q, got %q", want, msg)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("%s: expected %v, got %v", in, want, got)
		}
	}
}

func TestDBPath(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/resumemd"}
	if got := cfg.DBPath(); got != "/var/lib/resumemd/resumemd.db" {
		t.Errorf("expected /var/lib/resumemd/resumemd.db, got %q", got)
	}
}

func TestOptionsUniqueKeys(t *testing.T) {
	seen := map[string]bool{}
	for _, o := range Options() {
		if seen[o.Key] {
			t.Errorf("duplicate option %q", o.Key)
		}
		seen[o.Key] = true
		if o.Comment == "" {
			t.Errorf("option %q has no comment", o.Key)
		}
	}
}
