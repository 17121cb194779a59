// Package config loads liker's configuration.
//
// # Overview
//
// Settings come from a TOML file read through viper, overlaid by LIKER_*
// environment variables. Every key has a default, so liker runs with no
// config file at all.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/liker/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. Environment variables override both (LIKER_API_BASE, LIKER_AUTH_TOKEN, ...)
//  5. Blank or non-positive values are replaced by defaults
//
// # Default Values
//
//   - api_base: https://api.like.co
//   - like_co_host: like.co
//   - liker_land_url: https://liker.land
//   - button_base: https://button.like.co
//   - log_dir: ~/.local/share/liker/logs (log file <log_dir>/liker.log)
//   - state_dir: ~/.local/share/liker (cookie database <state_dir>/cookies.db)
//   - mock_addr: 127.0.0.1:7488
//   - request_timeout: 5s
//   - like_debounce: 500ms
//   - resync_interval: 0 (disabled)
//   - cookies_enabled: true
//   - strict_tracking_protection: false
//
// # TOML Format
//
//	api_base = "http://127.0.0.1:7488"
//	auth_token = "carol"
//	resync_interval = "2m"
//	cookies_enabled = true
//
// Durations use Go syntax ("500ms", "2m"). Tilde expansion is performed for
// log_dir, state_dir and the config path.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - Malformed TOML ("parse config: ...")
//   - Values of the wrong type ("decode config: ...")
//
// A missing file is not an error.
package config
