// Package config defines the recorder configuration structure.
package config

import (
	"os"

	"github.com/yndnr/livewatch-go/internal/core/domain"
)

// Verify validates a recording configuration. It is called on the
// record path only; listing commands load without it.
//
// Verification creates the data directory as a side effect so a bad
// path fails here instead of at the first snapshot.
func Verify(cfg *Config) error {
	if cfg.LiveID == "" {
		return domain.ErrConfigInvalid.WithDetails("live_id is required")
	}
	for _, r := range cfg.LiveID {
		if r < '0' || r > '9' {
			return domain.ErrConfigInvalid.WithDetails("live_id must be numeric")
		}
	}

	if cfg.DataDir == "" {
		return domain.ErrConfigInvalid.WithDetails("data_dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return domain.ErrConfigInvalid.WithDetails("cannot create data directory").WithCause(err)
	}

	for _, d := range []struct {
		key   string
		value int64
	}{
		{"snapshot_interval", int64(cfg.SnapshotInterval)},
		{"heartbeat_interval", int64(cfg.HeartbeatInterval)},
		{"ping_interval", int64(cfg.PingInterval)},
		{"initial_retry_delay", int64(cfg.InitialRetryDelay)},
		{"reconnect_delay", int64(cfg.ReconnectDelay)},
		{"http.timeout", int64(cfg.HTTP.Timeout)},
	} {
		if d.value <= 0 {
			return domain.ErrConfigInvalid.WithDetails(d.key + " must be positive")
		}
	}

	if cfg.InitialRetries < 1 {
		return domain.ErrConfigInvalid.WithDetails("initial_retries must be at least 1")
	}

	if cfg.Signer.ScriptPath == "" {
		return domain.ErrConfigInvalid.WithDetails("signer.script_path is required")
	}
	if _, err := os.Stat(cfg.Signer.ScriptPath); err != nil {
		return domain.ErrConfigInvalid.WithDetails("signer script not readable").WithCause(err)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return domain.ErrConfigInvalid.WithDetails("log.level must be one of debug, info, warn, error")
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return domain.ErrConfigInvalid.WithDetails("log.format must be json or text")
	}
	switch cfg.Log.Output {
	case "stderr", "stdout":
	default:
		return domain.ErrConfigInvalid.WithDetails("log.output must be stderr or stdout")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return domain.ErrConfigInvalid.WithDetails("metrics.listen is required when metrics.enabled")
	}

	return nil
}
