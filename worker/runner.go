// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"fmt"
	"io"
	"log/slog"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mantle-framework/mantle/lib/clock"
	"github.com/mantle-framework/mantle/lib/procfs"
)

// Config holds the parameters for one unmount job.
type Config struct {
	// TargetPID is the suspended process whose namespace is
	// scrubbed. Required.
	TargetPID int

	// MonitorPID receives DoneSignal when the job finishes.
	// Required.
	MonitorPID int

	// Joined reports whether the pre-main namespace join succeeded.
	// When false, all unmount phases are skipped; the target is
	// still resumed and completion still reported.
	Joined bool

	// Grace is the delay between resuming the target and reporting
	// completion, giving the target time to finish starting before
	// the global markers reappear. Default 10s.
	Grace time.Duration

	// DoneSignal is the completion signal sent to MonitorPID.
	// Default SIGUSR2.
	DoneSignal syscall.Signal

	// CacheMountpoint locates the cache partition entry whose
	// device identifies the framework's file overlays. Default
	// "/cache".
	CacheMountpoint string

	// ProtectedPrefixes are the mountpoint prefixes cache-backed
	// overlays are removed under. Default ["/system/", "/vendor/"].
	ProtectedPrefixes []string

	// SkeletonMountpoints are where tmpfs skeletons are removed
	// from, matched exactly. Default ["/system", "/vendor", "/sbin"].
	SkeletonMountpoints []string

	// LoopDevicePrefix identifies image-backed mounts by device
	// path. Default "/dev/block/loop".
	LoopDevicePrefix string

	// Mounts reads a pid's mount table. Default procfs.Mounts.
	Mounts func(pid int) ([]procfs.MountEntry, error)

	// Unmount detaches one mountpoint. Default lazy unmount
	// (MNT_DETACH).
	Unmount func(mountpoint string) error

	// Signal sends a signal to a pid. Default kill(2).
	Signal func(pid int, sig syscall.Signal) error

	// AdjustSELinux and ClearProperties are the external
	// collaborators invoked before the namespace work; their
	// failures are logged and ignored. Either may be nil.
	AdjustSELinux   func() error
	ClearProperties func() error

	// Clock defaults to the real clock.
	Clock clock.Clock

	// Logger defaults to discard.
	Logger *slog.Logger
}

// Runner executes one unmount job. The cache block token is resolved
// at most once per Runner and never retried once found absent.
type Runner struct {
	cfg    Config
	clock  clock.Clock
	logger *slog.Logger

	cacheBlock    string
	cacheDisabled bool
}

// New validates cfg, fills defaults, and returns a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.TargetPID <= 0 {
		return nil, fmt.Errorf("worker: TargetPID is required")
	}
	if cfg.MonitorPID <= 0 {
		return nil, fmt.Errorf("worker: MonitorPID is required")
	}
	if cfg.Grace <= 0 {
		cfg.Grace = 10 * time.Second
	}
	if cfg.DoneSignal == 0 {
		cfg.DoneSignal = unix.SIGUSR2
	}
	if cfg.CacheMountpoint == "" {
		cfg.CacheMountpoint = "/cache"
	}
	if len(cfg.ProtectedPrefixes) == 0 {
		cfg.ProtectedPrefixes = []string{"/system/", "/vendor/"}
	}
	if len(cfg.SkeletonMountpoints) == 0 {
		cfg.SkeletonMountpoints = []string{"/system", "/vendor", "/sbin"}
	}
	if cfg.LoopDevicePrefix == "" {
		cfg.LoopDevicePrefix = "/dev/block/loop"
	}
	if cfg.Mounts == nil {
		cfg.Mounts = procfs.Mounts
	}
	if cfg.Unmount == nil {
		cfg.Unmount = func(mountpoint string) error {
			return unix.Unmount(mountpoint, unix.MNT_DETACH)
		}
	}
	if cfg.Signal == nil {
		cfg.Signal = func(pid int, sig syscall.Signal) error {
			return unix.Kill(pid, sig)
		}
	}

	r := &Runner{cfg: cfg, clock: cfg.Clock, logger: cfg.Logger}
	if r.clock == nil {
		r.clock = clock.Real()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r, nil
}

// Run executes the job: collaborators, unmount phases, resume, grace
// delay, completion report. The target is resumed exactly once and
// unconditionally, whatever the unmount phases did.
func (r *Runner) Run() error {
	r.logger.Info("unmount worker starting",
		"target_pid", r.cfg.TargetPID,
		"ns_joined", r.cfg.Joined,
	)

	if r.cfg.AdjustSELinux != nil {
		if err := r.cfg.AdjustSELinux(); err != nil {
			r.logger.Warn("selinux adjustment failed", "error", err)
		}
	}
	if r.cfg.ClearProperties != nil {
		if err := r.cfg.ClearProperties(); err != nil {
			r.logger.Warn("property clearing failed", "error", err)
		}
	}

	if r.cfg.Joined {
		if err := r.unmountAll(); err != nil {
			r.logger.Warn("unmount pass incomplete", "error", err)
		}
	} else {
		r.logger.Warn("namespace join failed, skipping unmounts", "target_pid", r.cfg.TargetPID)
	}

	if err := r.cfg.Signal(r.cfg.TargetPID, unix.SIGCONT); err != nil {
		r.logger.Warn("resuming target failed", "target_pid", r.cfg.TargetPID, "error", err)
	}

	// Let the target finish starting before the monitor is told the
	// drain may restore global markers.
	r.clock.Sleep(r.cfg.Grace)

	if err := r.cfg.Signal(r.cfg.MonitorPID, r.cfg.DoneSignal); err != nil {
		return fmt.Errorf("worker: reporting completion to pid %d: %w", r.cfg.MonitorPID, err)
	}
	return nil
}

// unmountAll runs the three unmount phases against the target's
// mount table. Individual unmount failures are logged and skipped;
// only a table read failure aborts.
func (r *Runner) unmountAll() error {
	entries, err := r.cfg.Mounts(r.cfg.TargetPID)
	if err != nil {
		return fmt.Errorf("worker: reading mount table: %w", err)
	}

	// Resolve the cache block device once; without a /cache entry
	// the cache-aware phase is disabled for good.
	if !r.cacheDisabled && r.cacheBlock == "" {
		r.cacheBlock = findCacheBlock(entries, r.cfg.CacheMountpoint)
		if r.cacheBlock == "" {
			r.cacheDisabled = true
			r.logger.Info("no cache mount found, cache-aware unmounting disabled")
		}
	}

	if r.cacheBlock != "" {
		r.detachAll(cacheBackedTargets(entries, r.cacheBlock, r.cfg.ProtectedPrefixes))
	}
	r.detachAll(skeletonTargets(entries, r.cfg.SkeletonMountpoints))

	// The detaches above invalidate the table; re-read before the
	// loop-device pass.
	entries, err = r.cfg.Mounts(r.cfg.TargetPID)
	if err != nil {
		return fmt.Errorf("worker: re-reading mount table: %w", err)
	}
	r.detachAll(loopTargets(entries, r.cfg.LoopDevicePrefix))
	return nil
}

// detachAll lazily unmounts each mountpoint, independently.
func (r *Runner) detachAll(mountpoints []string) {
	for _, mountpoint := range mountpoints {
		if err := r.cfg.Unmount(mountpoint); err != nil {
			r.logger.Warn("unmount failed", "mountpoint", mountpoint, "error", err)
			continue
		}
		r.logger.Info("unmounted", "mountpoint", mountpoint)
	}
}
