package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything the agent needs to run.
type Config struct {
	// RemoteURI is the MongoDB connection string of the time-event log.
	RemoteURI string
	// Database is the database holding time_events and memberships.
	Database string
	// UserID identifies the operator of this device. Empty means actions
	// fail with a not-authenticated error until configured.
	UserID string
	// APIBind is the listen address of the local HTTP API.
	APIBind string
	// StorePath overrides the local snapshot file location.
	StorePath string
	// GeoEndpoint is the optional geolocation lookup URL. Empty disables
	// location annotation.
	GeoEndpoint string

	// DriftThreshold is the local/remote start-time divergence beyond which
	// reconciliation adopts the remote value.
	DriftThreshold time.Duration
	// StaleAfter is the snapshot age beyond which a restored session is
	// treated as abandoned.
	StaleAfter time.Duration
	// SyncInterval is the periodic reconciliation cadence while a session
	// is open.
	SyncInterval time.Duration
}

const (
	defaultConfigPath = "~/.config/clockwise/config.toml"
	defaultRemoteURI  = "mongodb://127.0.0.1:27017"
	defaultDatabase   = "clockwise"
	defaultAPIBind    = "127.0.0.1:7437"

	defaultDriftThreshold = 10 * time.Minute
	defaultStaleAfter     = 24 * time.Hour
	defaultSyncInterval   = 2 * time.Minute
)

// Load locates and parses the config file. A missing file yields defaults;
// a malformed one is an error so misconfiguration does not pass silently.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		RemoteURI           string `toml:"remote_uri"`
		Database            string `toml:"database"`
		UserID              string `toml:"user_id"`
		APIBind             string `toml:"api_bind"`
		StorePath           string `toml:"store_path"`
		GeoEndpoint         string `toml:"geo_endpoint"`
		DriftThresholdMin   int    `toml:"drift_threshold_minutes"`
		StaleAfterHours     int    `toml:"stale_after_hours"`
		SyncIntervalMinutes int    `toml:"sync_interval_minutes"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.RemoteURI); v != "" {
		cfg.RemoteURI = v
	}
	if v := strings.TrimSpace(raw.Database); v != "" {
		cfg.Database = v
	}
	cfg.UserID = strings.TrimSpace(raw.UserID)
	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	cfg.StorePath = strings.TrimSpace(raw.StorePath)
	cfg.GeoEndpoint = strings.TrimSpace(raw.GeoEndpoint)

	if raw.DriftThresholdMin > 0 {
		cfg.DriftThreshold = time.Duration(raw.DriftThresholdMin) * time.Minute
	}
	if raw.StaleAfterHours > 0 {
		cfg.StaleAfter = time.Duration(raw.StaleAfterHours) * time.Hour
	}
	if raw.SyncIntervalMinutes > 0 {
		cfg.SyncInterval = time.Duration(raw.SyncIntervalMinutes) * time.Minute
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		RemoteURI:      defaultRemoteURI,
		Database:       defaultDatabase,
		APIBind:        defaultAPIBind,
		DriftThreshold: defaultDriftThreshold,
		StaleAfter:     defaultStaleAfter,
		SyncInterval:   defaultSyncInterval,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
