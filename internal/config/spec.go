// Package config defines the recorder configuration structure.
package config

import "time"

// Config is the root configuration for livewatch.
type Config struct {
	// LiveID is the room handle to record. Required; usually supplied
	// as the record command's positional argument.
	LiveID string `koanf:"live_id"`

	// DataDir is where snapshot documents are written.
	DataDir string `koanf:"data_dir"`

	// SnapshotInterval is the period between persisted snapshots.
	SnapshotInterval time.Duration `koanf:"snapshot_interval"`

	// HeartbeatInterval is the period between application heartbeat frames.
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`

	// PingInterval is the period between transport-level pings; the read
	// deadline is derived from it.
	PingInterval time.Duration `koanf:"ping_interval"`

	// InitialRetries bounds the first-connect attempts before giving up.
	InitialRetries int `koanf:"initial_retries"`

	// InitialRetryDelay is the pause between first-connect attempts.
	InitialRetryDelay time.Duration `koanf:"initial_retry_delay"`

	// ReconnectDelay is the flat pause before re-dialing a lost connection.
	ReconnectDelay time.Duration `koanf:"reconnect_delay"`

	// DeviceID is the device identity reported in the push URL. Leave
	// empty to use the built-in one.
	DeviceID string `koanf:"device_id"`

	Signer  SignerSection  `koanf:"signer"`
	HTTP    HTTPSection    `koanf:"http"`
	Log     LogSection     `koanf:"log"`
	Metrics MetricsSection `koanf:"metrics"`
}

// SignerSection configures the URL signature script.
type SignerSection struct {
	// ScriptPath is the JavaScript file exporting get_sign.
	ScriptPath string `koanf:"script_path"`

	// Watch reloads the script when the file changes on disk.
	Watch bool `koanf:"watch"`
}

// HTTPSection configures outbound HTTP used for room resolution.
type HTTPSection struct {
	Timeout time.Duration `koanf:"timeout"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

// MetricsSection configures the optional Prometheus listener.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen"`
}
