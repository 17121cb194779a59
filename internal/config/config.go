package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything liker reads from config.toml and LIKER_* variables.
type Config struct {
	APIBase      string `mapstructure:"api_base"`
	LikeCoHost   string `mapstructure:"like_co_host"`
	LikerLandURL string `mapstructure:"liker_land_url"`
	ButtonBase   string `mapstructure:"button_base"`
	AuthToken    string `mapstructure:"auth_token"`
	LogDir       string `mapstructure:"log_dir"`
	StateDir     string `mapstructure:"state_dir"`
	MockAddr     string `mapstructure:"mock_addr"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LikeDebounce   time.Duration `mapstructure:"like_debounce"`
	// ResyncInterval of zero disables periodic resync.
	ResyncInterval time.Duration `mapstructure:"resync_interval"`

	CookiesEnabled           bool `mapstructure:"cookies_enabled"`
	StrictTrackingProtection bool `mapstructure:"strict_tracking_protection"`
}

const (
	envPrefix             = "LIKER"
	defaultConfigPath     = "~/.config/liker/config.toml"
	defaultAPIBase        = "https://api.like.co"
	defaultLikeCoHost     = "like.co"
	defaultLikerLandURL   = "https://liker.land"
	defaultButtonBase     = "https://button.like.co"
	defaultLogDir         = "~/.local/share/liker/logs"
	defaultStateDir       = "~/.local/share/liker"
	defaultMockAddr       = "127.0.0.1:7488"
	defaultRequestTimeout = 5 * time.Second
	defaultLikeDebounce   = 500 * time.Millisecond
)

// Load reads the config file at path (or the default location) and overlays
// LIKER_* environment variables. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(resolved)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base", defaultAPIBase)
	v.SetDefault("like_co_host", defaultLikeCoHost)
	v.SetDefault("liker_land_url", defaultLikerLandURL)
	v.SetDefault("button_base", defaultButtonBase)
	v.SetDefault("auth_token", "")
	v.SetDefault("log_dir", defaultLogDir)
	v.SetDefault("state_dir", defaultStateDir)
	v.SetDefault("mock_addr", defaultMockAddr)
	v.SetDefault("request_timeout", defaultRequestTimeout)
	v.SetDefault("like_debounce", defaultLikeDebounce)
	v.SetDefault("resync_interval", time.Duration(0))
	v.SetDefault("cookies_enabled", true)
	v.SetDefault("strict_tracking_protection", false)
}

// normalize trims values, restores defaults for blanks and expands paths.
func (c *Config) normalize() {
	c.APIBase = orDefault(c.APIBase, defaultAPIBase)
	c.LikeCoHost = orDefault(c.LikeCoHost, defaultLikeCoHost)
	c.LikerLandURL = orDefault(c.LikerLandURL, defaultLikerLandURL)
	c.ButtonBase = orDefault(c.ButtonBase, defaultButtonBase)
	c.AuthToken = strings.TrimSpace(c.AuthToken)
	c.MockAddr = orDefault(c.MockAddr, defaultMockAddr)
	c.LogDir = mustExpand(orDefault(c.LogDir, defaultLogDir))
	c.StateDir = mustExpand(orDefault(c.StateDir, defaultStateDir))

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.LikeDebounce <= 0 {
		c.LikeDebounce = defaultLikeDebounce
	}
	if c.ResyncInterval < 0 {
		c.ResyncInterval = 0
	}
}

// LogPath returns the path of liker's own log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/liker.log")
	}
	return filepath.Join(c.LogDir, "liker.log")
}

// CookieDBPath returns the SQLite file backing the cookie jar.
func (c Config) CookieDBPath() string {
	if strings.TrimSpace(c.StateDir) == "" {
		return mustExpand(defaultStateDir + "/cookies.db")
	}
	return filepath.Join(c.StateDir, "cookies.db")
}

func orDefault(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
