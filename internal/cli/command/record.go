// Package command provides CLI command definitions for livewatch.
package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/livewatch-go/internal/config"
	"github.com/yndnr/livewatch-go/internal/infra/buildinfo"
	"github.com/yndnr/livewatch-go/internal/infra/confloader"
	"github.com/yndnr/livewatch-go/internal/infra/shutdown"
	"github.com/yndnr/livewatch-go/internal/recorder"
	"github.com/yndnr/livewatch-go/internal/signer"
	"github.com/yndnr/livewatch-go/internal/telemetry/logger"
	"github.com/yndnr/livewatch-go/internal/telemetry/metric"
)

// shutdownTimeout bounds the hook chain on SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// RecordCommand returns the record command.
func RecordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Aliases:   []string{"rec"},
		Usage:     "Record a live room until interrupted",
		ArgsUsage: "LIVE_ID",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "save-interval",
				Usage: "Time between persisted snapshots (e.g., 300s, 5m)",
			},
			&cli.StringFlag{
				Name:  "signer-script",
				Usage: "Path to the JavaScript signature bundle",
			},
			&cli.BoolFlag{
				Name:  "signer-watch",
				Usage: "Reload the signature bundle when the file changes",
			},
			&cli.StringFlag{
				Name:  "metrics-listen",
				Usage: "Serve Prometheus metrics on this address",
			},
		},
		Action: recordAction,
	}
}

func recordAction(c *cli.Context) error {
	liveID := c.Args().First()
	if liveID == "" {
		return fmt.Errorf("live ID required")
	}

	// 1. Assemble configuration: defaults, file, environment, then
	// command flags on top.
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.LiveID = liveID
	if v := c.Duration("save-interval"); v > 0 {
		cfg.SnapshotInterval = v
	}
	if v := c.String("signer-script"); v != "" {
		cfg.Signer.ScriptPath = v
	}
	if c.Bool("signer-watch") {
		cfg.Signer.Watch = true
	}
	if v := c.String("metrics-listen"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = v
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}

	// 2. Initialize logger.
	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting livewatch",
		"version", buildinfo.Version,
		"live_id", cfg.LiveID,
		"data_dir", cfg.DataDir,
		"config", c.String("config"))

	// 3. Metrics registry, with an optional scrape listener.
	registry := prometheus.NewRegistry()
	metrics := metric.New(registry)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = &http.Server{
			Addr:    cfg.Metrics.Listen,
			Handler: metric.Handler(registry),
		}
		go func() {
			log.Info("metrics listening", "addr", cfg.Metrics.Listen)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", "error", err)
			}
		}()
	}

	// 4. Load the signature script, optionally reloading it when the
	// file changes on disk.
	sign, err := signer.NewScriptSigner(cfg.Signer.ScriptPath, signer.WithLogger(log))
	if err != nil {
		return err
	}
	if cfg.Signer.Watch {
		watcher, err := confloader.NewWatcher()
		if err != nil {
			return fmt.Errorf("watch signer script: %w", err)
		}
		if err := watcher.Watch(cfg.Signer.ScriptPath); err != nil {
			return fmt.Errorf("watch signer script: %w", err)
		}
		watcher.OnChange(func(path string) {
			if err := sign.Reload(); err != nil {
				log.Error("signer script reload failed", "path", path, "error", err)
			}
		})
		watcher.StartAsync()
		defer watcher.Stop()
	}

	// 5. Start the recorder. Failures here (room offline plus no
	// socket, bad data dir) surface before the process settles in.
	rec := recorder.New(recorder.Config{
		LiveID:            cfg.LiveID,
		DataDir:           cfg.DataDir,
		Signer:            sign,
		SnapshotInterval:  cfg.SnapshotInterval,
		HeartbeatInterval: cfg.HeartbeatInterval,
		PingInterval:      cfg.PingInterval,
		InitialRetries:    cfg.InitialRetries,
		InitialRetryDelay: cfg.InitialRetryDelay,
		ReconnectDelay:    cfg.ReconnectDelay,
		DeviceID:          cfg.DeviceID,
		HTTPTimeout:       cfg.HTTP.Timeout,
	}, recorder.WithLogger(log), recorder.WithMetrics(metrics))

	// Session totals are read from the aggregate at scrape time.
	registry.MustRegister(metric.NewCollector(rec))

	if err := rec.Start(c.Context); err != nil {
		return err
	}

	// 6. Run until SIGINT/SIGTERM. Hooks run newest first: the scrape
	// listener drains before the recorder writes its final snapshot.
	shutdownHandler := shutdown.NewHandler(shutdownTimeout)
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		rec.Stop()
		return nil
	})
	if metricsServer != nil {
		shutdownHandler.OnShutdown(metricsServer.Shutdown)
	}

	log.Info("recording, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}
	return nil
}

// initLogger builds the process logger from config and installs it as
// the package default.
func initLogger(cfg *config.Config) (logger.Logger, error) {
	out := os.Stderr
	if cfg.Log.Output == "stdout" {
		out = os.Stdout
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	return log, nil
}
