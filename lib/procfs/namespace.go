// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package procfs

import (
	"fmt"
	"os"
)

// MountNamespace returns the mount-namespace identity of pid: the
// symlink target of /proc/<pid>/ns/mnt, e.g. "mnt:[4026531840]".
//
// The read fails when the process has exited (the /proc entry is
// gone) or when the kernel does not expose namespace handles at all;
// the caller decides which case it is from context.
func MountNamespace(pid int) (string, error) {
	target, err := os.Readlink(fmt.Sprintf("/proc/%d/ns/mnt", pid))
	if err != nil {
		return "", fmt.Errorf("reading mount namespace of pid %d: %w", pid, err)
	}
	return target, nil
}
