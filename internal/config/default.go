// Package config defines the recorder configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultDataDir = "data/live_data"

	DefaultSnapshotInterval  = 300 * time.Second
	DefaultHeartbeatInterval = 10 * time.Second
	DefaultPingInterval      = 30 * time.Second

	DefaultInitialRetries    = 3
	DefaultInitialRetryDelay = 3 * time.Second
	DefaultReconnectDelay    = 5 * time.Second

	DefaultHTTPTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stderr"

	DefaultMetricsListen = "127.0.0.1:9130"
)

// Default returns the default recorder configuration.
func Default() *Config {
	return &Config{
		DataDir:           DefaultDataDir,
		SnapshotInterval:  DefaultSnapshotInterval,
		HeartbeatInterval: DefaultHeartbeatInterval,
		PingInterval:      DefaultPingInterval,
		InitialRetries:    DefaultInitialRetries,
		InitialRetryDelay: DefaultInitialRetryDelay,
		ReconnectDelay:    DefaultReconnectDelay,
		HTTP: HTTPSection{
			Timeout: DefaultHTTPTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
		Metrics: MetricsSection{
			Enabled: false,
			Listen:  DefaultMetricsListen,
		},
	}
}
