// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package procfs

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
)

// PidsByName returns the pids of all processes whose command name
// matches name, in ascending pid order. The command name is the
// basename of the first cmdline argument, falling back to comm for
// kernel threads and processes that have rewritten their cmdline.
func PidsByName(name string) ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("reading /proc: %w", err)
	}

	var pids []int
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if commandNameMatches(pid, name) {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// commandNameMatches reports whether pid's command name equals name.
// Read errors mean the process vanished mid-scan and count as no
// match.
func commandNameMatches(pid int, name string) bool {
	cmdline, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err == nil {
		if argv0 := firstCmdlineArg(cmdline); argv0 != "" {
			return path.Base(argv0) == name
		}
	}

	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return false
	}
	return strings.TrimSuffix(string(comm), "\n") == name
}

// firstCmdlineArg extracts argv[0] from a NUL-separated cmdline blob.
func firstCmdlineArg(cmdline []byte) string {
	if i := bytes.IndexByte(cmdline, 0); i >= 0 {
		cmdline = cmdline[:i]
	}
	return string(cmdline)
}
