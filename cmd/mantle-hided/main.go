// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/mantle-framework/mantle/hidelist"
	"github.com/mantle-framework/mantle/lib/config"
	"github.com/mantle-framework/mantle/lib/process"
	"github.com/mantle-framework/mantle/lib/version"
	"github.com/mantle-framework/mantle/logwatch"
	"github.com/mantle-framework/mantle/monitor"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("mantle-hided", pflag.ContinueOnError)
	configPath := flags.String("config", "", "configuration file (default: $"+config.EnvConfigPath+")")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *showVersion {
		fmt.Printf("mantle-hided %s\n", version.Info())
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	// Worker completion arrives as SIGUSR2. The channel is buffered so
	// completions landing while the monitor is mid-event are not lost;
	// the kernel coalesces beyond that, which the monitor tolerates.
	workerDone := make(chan os.Signal, 16)
	signal.Notify(workerDone, unix.SIGUSR2)
	defer signal.Stop(workerDone)

	store, err := hidelist.Open(ctx, hidelist.Config{
		Path:   cfg.HideListDB,
		Logger: logger.With("component", "hidelist"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing hide list", "error", err)
		}
	}()

	watcher, err := logwatch.New(logwatch.Config{
		Command: cfg.EventSource.Command,
		Tag:     cfg.EventSource.Tag,
		Logger:  logger.With("component", "logwatch"),
	})
	if err != nil {
		return err
	}

	workerBinary, err := resolveWorkerBinary(cfg.Worker.Binary)
	if err != nil {
		return err
	}

	mon, err := monitor.New(monitor.Config{
		HideList: store,
		Events:   watcher,
		Proc:     monitor.SystemProc(),
		Spawner: &monitor.ExecSpawner{
			BinaryPath: workerBinary,
			Args:       workerArgs(cfg),
			Logger:     logger.With("component", "spawner"),
		},
		Markers: &monitor.Markers{
			Root:       cfg.Markers.Root,
			RootLink:   monitor.Link(cfg.Markers.RootLink),
			DataLink:   monitor.Link(cfg.Markers.DataLink),
			ImageLink:  monitor.Link(cfg.Markers.ImageLink),
			ScriptPath: cfg.Markers.ScriptPath,
			Remounter:  monitor.RootRemounter(cfg.Markers.Root),
			Logger:     logger.With("component", "markers"),
		},
		WorkerDone:           workerDone,
		ZygoteNames:          cfg.Monitor.ZygoteNames,
		ZygotePollInterval:   cfg.Monitor.ZygotePollInterval,
		ZygoteSettleInterval: cfg.Monitor.ZygoteSettleInterval,
		SampleInterval:       cfg.Monitor.SampleInterval,
		RaceTimeout:          cfg.Monitor.RaceTimeout,
		Logger:               logger.With("component", "monitor"),
	})
	if err != nil {
		return err
	}

	logger.Info("mantle-hided starting",
		"version", version.Info(),
		"hide_list_db", cfg.HideListDB,
		"worker_binary", workerBinary,
	)

	// The event stream failing is fatal to the daemon: without it no
	// launches can be detected. Its failure cancels the monitor.
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	// SIGHUP reloads the hide list, picking up mutations made by the
	// mantle-hide CLI through the shared database.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, unix.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for {
			select {
			case <-runCtx.Done():
				return
			case <-reload:
				if err := store.Reload(runCtx); err != nil {
					logger.Error("hide list reload failed", "error", err)
				}
			}
		}
	}()

	go func() {
		err := watcher.Run(runCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			cancel(fmt.Errorf("event stream failed: %w", err))
			return
		}
		cancel(nil)
	}()

	err = mon.Run(runCtx)
	if errors.Is(err, context.Canceled) {
		if cause := context.Cause(runCtx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		logger.Info("mantle-hided shut down")
		return nil
	}
	return err
}

// resolveWorkerBinary returns the worker executable path: the
// configured one, or the binary named mantle-hide-worker next to the
// running daemon.
func resolveWorkerBinary(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating worker binary: %w", err)
	}
	return filepath.Join(filepath.Dir(self), "mantle-hide-worker"), nil
}

// workerArgs renders the worker tunables from the daemon config as
// worker command-line flags. The target pids travel separately in the
// environment (see monitor.ExecSpawner).
func workerArgs(cfg *config.Config) []string {
	args := []string{
		"--grace", cfg.Worker.Grace.String(),
		"--loop-device-prefix", cfg.Worker.LoopDevicePrefix,
		"--cache-mountpoint", cfg.Worker.CacheMountpoint,
	}
	for _, property := range cfg.Worker.ClearProperties {
		args = append(args, "--clear-property", property)
	}
	for _, word := range cfg.Worker.PropertyTool {
		args = append(args, "--property-tool", word)
	}
	return args
}
