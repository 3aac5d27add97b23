// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
	"unsafe"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/mantle-framework/mantle/lib/process"
	"github.com/mantle-framework/mantle/lib/sepolicy"
	"github.com/mantle-framework/mantle/lib/sysprops"
	"github.com/mantle-framework/mantle/worker"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	flags := pflag.NewFlagSet("mantle-hide-worker", pflag.ContinueOnError)
	grace := flags.Duration("grace", 10*time.Second, "delay between resuming the target and reporting completion")
	loopDevicePrefix := flags.String("loop-device-prefix", "/dev/block/loop", "device prefix identifying image-backed mounts")
	cacheMountpoint := flags.String("cache-mountpoint", "/cache", "mountpoint of the cache partition")
	protectedPrefixes := flags.StringArray("protected-prefix", nil, "mountpoint prefix scrubbed of cache-backed overlays (repeatable)")
	skeletonMountpoints := flags.StringArray("skeleton-mountpoint", nil, "exact mountpoint scrubbed of tmpfs skeletons (repeatable)")
	clearProperties := flags.StringArray("clear-property", nil, "system property deleted before the namespace work (repeatable)")
	propertyTool := flags.StringArray("property-tool", nil, "property-deletion command word (repeatable, in order)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	targetPID, err := pidFromEnv(worker.EnvTargetPID)
	if err != nil {
		return err
	}
	monitorPID, err := pidFromEnv(worker.EnvMonitorPID)
	if err != nil {
		return err
	}
	joined := os.Getenv(worker.EnvJoinFailed) != "1"

	setProcessName("mantle-worker")

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("target_pid", targetPID)
	slog.SetDefault(logger)

	runner, err := worker.New(worker.Config{
		TargetPID:           targetPID,
		MonitorPID:          monitorPID,
		Joined:              joined,
		Grace:               *grace,
		CacheMountpoint:     *cacheMountpoint,
		ProtectedPrefixes:   *protectedPrefixes,
		SkeletonMountpoints: *skeletonMountpoints,
		LoopDevicePrefix:    *loopDevicePrefix,
		AdjustSELinux: func() error {
			return sepolicy.Restrict(sepolicy.Config{})
		},
		ClearProperties: func() error {
			return sysprops.Clear(context.Background(), sysprops.Config{
				Tool:       *propertyTool,
				Properties: *clearProperties,
				Logger:     logger,
			})
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	return runner.Run()
}

// pidFromEnv reads a positive pid from the named environment variable.
func pidFromEnv(name string) (int, error) {
	value := os.Getenv(name)
	if value == "" {
		return 0, fmt.Errorf("%s is not set; this binary is spawned by mantle-hided, not run directly", name)
	}
	pid, err := strconv.Atoi(value)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%s=%q is not a valid pid", name, value)
	}
	return pid, nil
}

// setProcessName renames the process in the kernel's view (comm and
// ps output) so the worker does not advertise the framework's name to
// the process it is scrubbing.
func setProcessName(name string) {
	bytes, err := unix.BytePtrFromString(name)
	if err != nil {
		return
	}
	// Best effort; the worker proceeds under its original name on
	// failure.
	_ = unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(bytes)), 0, 0, 0)
}
