package config

import "time"

// StorageConfig selects and locates the durable history backend.
type StorageConfig struct {
	// Driver is one of "sqlite", "pebble" or "memory".
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Path is the database file (sqlite) or directory (pebble).
	Path string `mapstructure:"path" yaml:"path"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// AllowedOrigins lists origins permitted for cross-origin access,
	// both for websocket upgrades and the REST API. Empty means
	// same-origin only; "*" allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// AutoCreateRooms makes submitting or joining an unknown room
	// create it instead of failing.
	AutoCreateRooms bool `mapstructure:"auto_create_rooms" yaml:"auto_create_rooms"`

	// RoomIDLength is the number of random bytes in generated room ids.
	RoomIDLength int `mapstructure:"room_id_length" yaml:"room_id_length"`

	// HistoryLimit caps messages replayed per room; 0 means all.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit"`

	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		AutoCreateRooms:   true,
		RoomIDLength:      8,
		HistoryLimit:      500,
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "ghostchat.db",
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if len(other.AllowedOrigins) != 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.RoomIDLength != 0 {
		c.RoomIDLength = other.RoomIDLength
	}
	if other.HistoryLimit != 0 {
		c.HistoryLimit = other.HistoryLimit
	}
	if other.Storage.Driver != "" {
		c.Storage.Driver = other.Storage.Driver
	}
	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}
}
