package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.LikeCoHost != defaultLikeCoHost {
		t.Fatalf("LikeCoHost = %q, want %q", cfg.LikeCoHost, defaultLikeCoHost)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.LikeDebounce != 500*time.Millisecond {
		t.Fatalf("LikeDebounce = %v, want 500ms", cfg.LikeDebounce)
	}
	if cfg.ResyncInterval != 0 {
		t.Fatalf("ResyncInterval = %v, want 0", cfg.ResyncInterval)
	}
	if !cfg.CookiesEnabled || cfg.StrictTrackingProtection {
		t.Fatalf("cookies = %v strict = %v, want true false", cfg.CookiesEnabled, cfg.StrictTrackingProtection)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogPath() != filepath.Join(wantLogDir, "liker.log") {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath(), filepath.Join(wantLogDir, "liker.log"))
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  http://127.0.0.1:7488  "
auth_token = " carol "
log_dir = "  ~/.liker/logs  "
state_dir = "~/.liker"
request_timeout = "2s"
like_debounce = "250ms"
resync_interval = "1m"
cookies_enabled = false
strict_tracking_protection = true
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://127.0.0.1:7488" {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, "http://127.0.0.1:7488")
	}
	if cfg.AuthToken != "carol" {
		t.Fatalf("AuthToken = %q, want carol", cfg.AuthToken)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.CookieDBPath() != filepath.Join(home, ".liker", "cookies.db") {
		t.Fatalf("CookieDBPath = %q", cfg.CookieDBPath())
	}
	if cfg.RequestTimeout != 2*time.Second || cfg.LikeDebounce != 250*time.Millisecond || cfg.ResyncInterval != time.Minute {
		t.Fatalf("durations = %v %v %v", cfg.RequestTimeout, cfg.LikeDebounce, cfg.ResyncInterval)
	}
	if cfg.CookiesEnabled || !cfg.StrictTrackingProtection {
		t.Fatalf("cookies = %v strict = %v, want false true", cfg.CookiesEnabled, cfg.StrictTrackingProtection)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LIKER_AUTH_TOKEN", "bob")
	t.Setenv("LIKER_API_BASE", "http://localhost:9000")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`auth_token = "carol"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AuthToken != "bob" {
		t.Fatalf("AuthToken = %q, want bob", cfg.AuthToken)
	}
	if cfg.APIBase != "http://localhost:9000" {
		t.Fatalf("APIBase = %q, want http://localhost:9000", cfg.APIBase)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "   "
log_dir = ""
request_timeout = "0s"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/liker.log")) {
		t.Fatalf("LogPath = %q, want it to end with /liker.log", got)
	}
}
