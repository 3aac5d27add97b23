// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package worker

import (
	"strings"

	"github.com/mantle-framework/mantle/lib/procfs"
)

// findCacheBlock returns the device of the entry mounted exactly at
// cacheMountpoint, or "" when the table has none.
func findCacheBlock(entries []procfs.MountEntry, cacheMountpoint string) string {
	for _, entry := range entries {
		if entry.Mountpoint == cacheMountpoint {
			return entry.Device
		}
	}
	return ""
}

// cacheBackedTargets selects the mountpoints whose device contains
// the cache block token and whose mountpoint lies under one of the
// protected prefixes (/system/, /vendor/). These are the framework's
// file-level overlays.
func cacheBackedTargets(entries []procfs.MountEntry, token string, prefixes []string) []string {
	var targets []string
	for _, entry := range entries {
		if !strings.Contains(entry.Device, token) {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(entry.Mountpoint, prefix) {
				targets = append(targets, entry.Mountpoint)
				break
			}
		}
	}
	return targets
}

// skeletonTargets selects the tmpfs mounts sitting exactly at the
// skeleton mountpoints (/system, /vendor, /sbin): the dummy trees the
// framework overlays whole partitions with.
func skeletonTargets(entries []procfs.MountEntry, mountpoints []string) []string {
	var targets []string
	for _, entry := range entries {
		if entry.FSType != "tmpfs" {
			continue
		}
		for _, mountpoint := range mountpoints {
			if entry.Mountpoint == mountpoint {
				targets = append(targets, entry.Mountpoint)
				break
			}
		}
	}
	return targets
}

// loopTargets selects the mounts backed by a loop device: the
// framework's image-backed mounts.
func loopTargets(entries []procfs.MountEntry, loopPrefix string) []string {
	var targets []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Device, loopPrefix) {
			targets = append(targets, entry.Mountpoint)
		}
	}
	return targets
}
