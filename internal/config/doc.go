// Package config loads wpreport's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/wpreport/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. Apply WPREPORT_* environment overrides
//  5. Fill empty fields with defaults and validate ranges
//
// # TOML Format
//
//	[wordpress]
//	abspath = "/var/www/html"
//	content_dir = ""      # <abspath>/wp-content
//	plugin_dir = ""       # <content_dir>/plugins
//	mu_plugin_dir = ""    # <content_dir>/mu-plugins
//	debug_log = ""        # custom WP_DEBUG_LOG location
//
//	[logs]
//	php_error_log = ""
//	server_paths = ["/var/log/php*-fpm.log"]
//	max_results = 10
//	wordpress_lines = 50
//	server_lines = 30
//	timezone = ""         # IANA name, empty = host local time
//
//	[server]
//	bind = "127.0.0.1:7490"
//	token = ""
//	rate_limit = 30
//	rate_window = "60s"
//
//	[export]
//	dir = "."
//
//	[logging]
//	level = "info"
//	file = "~/.local/state/wpreport/wpreport.log"
//
// Every field is optional. Tilde expansion is performed on all paths.
//
// # Environment Overrides
//
//   - WPREPORT_ABSPATH: WordPress root (derived directories follow it)
//   - WPREPORT_CONTENT_DIR: wp-content directory
//   - WPREPORT_DEBUG_LOG: custom debug.log path
//   - WPREPORT_PHP_ERROR_LOG: PHP error_log path
//   - WPREPORT_TIMEZONE: location for zone-less log timestamps
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors, unknown time zones, bad durations
//   - Values outside their allowed range ("invalid config: ...")
//
// Missing config files are NOT an error. wpreport works against a stock
// /var/www/html install without any configuration.
package config
