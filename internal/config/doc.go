// Package config loads shelf's runtime configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (see Default)
//  2. TOML file, ~/.config/shelf/config.toml unless a path is given
//  3. A .env file in the working directory, if present
//  4. SHELF_* environment variables
//
// A missing config file is not an error. Empty or zero values in the file
// keep the default.
//
// # File Format
//
//	api_base        = "https://dav08library.onrender.com"
//	state_dir       = "~/.local/share/shelf"
//	log_file        = "~/.local/share/shelf/shelf.log"
//	log_level       = "info"
//	poll_seconds    = 60
//	timeout_seconds = 15
//	rate_per_second = 5
//
// # Environment
//
//	SHELF_API_BASE, SHELF_STATE_DIR, SHELF_LOG_FILE, SHELF_LOG_LEVEL,
//	SHELF_POLL (duration, e.g. 90s), SHELF_TIMEOUT, SHELF_RATE
//
// Paths beginning with ~ are expanded against the user's home directory.
package config
