// Package config handles loading and parsing Clockwise configuration files.
//
// # Overview
//
// This package reads Clockwise's TOML configuration to discover the remote
// record store, the user identity, and the agent's tuning knobs. Every field
// is optional; a missing config file yields a fully working default setup
// pointed at a local MongoDB instance.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/clockwise/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/clockwise/config.toml
//   - Remote URI: mongodb://127.0.0.1:27017
//   - Database: clockwise
//   - API endpoint: 127.0.0.1:7437
//   - Session store: ~/.local/state/clockwise/session.toml
//   - Drift threshold: 10 minutes
//   - Snapshot staleness cutoff: 24 hours
//   - Sync interval: 2 minutes
//
// # TOML Format
//
// Example config.toml:
//
//	remote_uri = "mongodb://timeclock.internal:27017"
//	database = "clockwise"
//	user_id = "u-58214"
//	api_bind = "127.0.0.1:7437"
//	geo_endpoint = "https://geo.internal/v1/here"
//	drift_threshold_minutes = 10
//	stale_after_hours = 24
//	sync_interval_minutes = 2
//
// Tilde expansion is performed automatically on path fields.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist, which triggers defaults), and TOML parsing errors. Missing
// config files are NOT an error.
package config
