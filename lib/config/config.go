// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "MANTLE_CONFIG"

// Config is the hide daemon's configuration.
type Config struct {
	// HideListDB is the SQLite database holding the hide list.
	HideListDB string `yaml:"hide_list_db"`

	// EventSource configures the launch-event stream.
	EventSource EventSourceConfig `yaml:"event_source"`

	// Markers configures the global on-disk framework markers.
	Markers MarkersConfig `yaml:"markers"`

	// Monitor configures the detection loop.
	Monitor MonitorConfig `yaml:"monitor"`

	// Worker configures the unmount workers.
	Worker WorkerConfig `yaml:"worker"`
}

// EventSourceConfig configures the log watcher.
type EventSourceConfig struct {
	// Command is the log reader command line.
	Command []string `yaml:"command"`

	// Tag filters event lines; only lines containing it are
	// delivered.
	Tag string `yaml:"tag"`
}

// LinkConfig is one marker symlink.
type LinkConfig struct {
	Path   string `yaml:"path"`
	Target string `yaml:"target"`
}

// MarkersConfig names the on-disk markers hidden while targets are
// being scrubbed.
type MarkersConfig struct {
	Root       string     `yaml:"root"`
	RootLink   LinkConfig `yaml:"root_link"`
	DataLink   LinkConfig `yaml:"data_link"`
	ImageLink  LinkConfig `yaml:"image_link"`
	ScriptPath string     `yaml:"script_path"`
}

// MonitorConfig holds the detection loop tunables.
type MonitorConfig struct {
	// ZygoteNames are the zygote flavor process names, primary
	// first.
	ZygoteNames []string `yaml:"zygote_names"`

	// ZygotePollInterval is the process-table scan interval while
	// waiting for the primary zygote.
	ZygotePollInterval time.Duration `yaml:"zygote_poll_interval"`

	// ZygoteSettleInterval is the pause between namespace samples of
	// a not-yet-diverged zygote.
	ZygoteSettleInterval time.Duration `yaml:"zygote_settle_interval"`

	// SampleInterval is the pause between samples in the
	// namespace-divergence race.
	SampleInterval time.Duration `yaml:"sample_interval"`

	// RaceTimeout bounds the divergence race; exceeding it abandons
	// the match.
	RaceTimeout time.Duration `yaml:"race_timeout"`
}

// WorkerConfig holds the unmount worker tunables.
type WorkerConfig struct {
	// Binary is the mantle-hide-worker executable. Empty means
	// auto-detect next to the daemon binary.
	Binary string `yaml:"binary"`

	// Grace is the delay between resuming a target and reporting
	// completion.
	Grace time.Duration `yaml:"grace"`

	// LoopDevicePrefix identifies image-backed mounts.
	LoopDevicePrefix string `yaml:"loop_device_prefix"`

	// CacheMountpoint locates the cache partition entry.
	CacheMountpoint string `yaml:"cache_mountpoint"`

	// ClearProperties are the marker properties deleted before the
	// namespace surgery.
	ClearProperties []string `yaml:"clear_properties"`

	// PropertyTool is the property-deletion command line.
	PropertyTool []string `yaml:"property_tool"`
}

// Default returns the configuration for a stock deployment.
func Default() *Config {
	return &Config{
		HideListDB: "/data/mantle/mantle.db",
		EventSource: EventSourceConfig{
			Command: []string{"logcat", "-b", "events", "-v", "raw", "-s", "am_proc_start"},
			Tag:     "am_proc_start",
		},
		Markers: MarkersConfig{
			Root:       "/",
			RootLink:   LinkConfig{Path: "mantle", Target: "/data/overlay/mirror"},
			DataLink:   LinkConfig{Path: "data/mantle", Target: "/data/overlay/bin"},
			ImageLink:  LinkConfig{Path: "data/mantle.img", Target: "/data/overlay.img"},
			ScriptPath: "init.mantle.rc",
		},
		Monitor: MonitorConfig{
			ZygoteNames:          []string{"zygote", "zygote64"},
			ZygotePollInterval:   2 * time.Second,
			ZygoteSettleInterval: 500 * time.Microsecond,
			SampleInterval:       50 * time.Microsecond,
			RaceTimeout:          500 * time.Millisecond,
		},
		Worker: WorkerConfig{
			Grace:            10 * time.Second,
			LoopDevicePrefix: "/dev/block/loop",
			CacheMountpoint:  "/cache",
			PropertyTool:     []string{"resetprop", "--delete"},
		},
	}
}

// Load reads the config file named by explicitPath, or by the
// MANTLE_CONFIG environment variable when explicitPath is empty. An
// empty result (no flag, no variable) returns the defaults. Fields
// absent from the file keep their defaults.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// validate rejects configurations the daemon cannot run with.
func (c *Config) validate() error {
	if c.HideListDB == "" {
		return fmt.Errorf("hide_list_db must not be empty")
	}
	if len(c.EventSource.Command) == 0 {
		return fmt.Errorf("event_source.command must not be empty")
	}
	if len(c.Monitor.ZygoteNames) == 0 {
		return fmt.Errorf("monitor.zygote_names must not be empty")
	}
	if c.Markers.Root == "" {
		return fmt.Errorf("markers.root must not be empty")
	}
	return nil
}
