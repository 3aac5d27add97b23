// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package procfs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MountEntry is one line of a /proc/<pid>/mounts table.
type MountEntry struct {
	// Device is the mount source: a block device path, "tmpfs",
	// "proc", and so on.
	Device string

	// Mountpoint is where the mount is attached.
	Mountpoint string

	// FSType is the filesystem type.
	FSType string

	// Options is the raw comma-separated option string.
	Options string
}

// Mounts reads the mount table of pid. Call it again after unmounting
// to observe the updated table; entry order follows the kernel's and
// shifts as mounts disappear.
func Mounts(pid int) ([]MountEntry, error) {
	path := fmt.Sprintf("/proc/%d/mounts", pid)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()
	return ParseMounts(file)
}

// ParseMounts decodes mount-table lines from r. Lines with fewer than
// four fields are skipped; the trailing dump/pass columns are ignored.
func ParseMounts(r io.Reader) ([]MountEntry, error) {
	var entries []MountEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		entries = append(entries, MountEntry{
			Device:     fields[0],
			Mountpoint: fields[1],
			FSType:     fields[2],
			Options:    fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}
	return entries, nil
}
