// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"strconv"
	"strings"
)

// maxProcessNameBytes bounds the decoded process name.
const maxProcessNameBytes = 255

// launchEvent is one decoded app-launch record.
type launchEvent struct {
	pid         int
	processName string
}

// parseLaunchEvent decodes a raw event line into (pid, processName).
//
// The line carries one bracketed, comma-separated tuple. The field
// layout is selected by comma count: exactly 6 commas means the
// 7-field form (sequence, pid, _, _, processName, ...), anything else
// is read as the 4-field form (sequence, pid, _, processName). Lines
// that do not yield a numeric pid and a non-empty name are rejected.
func parseLaunchEvent(line string) (launchEvent, bool) {
	start := strings.IndexByte(line, '[')
	if start < 0 {
		return launchEvent{}, false
	}
	tuple := line[start+1:]
	if end := strings.IndexByte(tuple, ']'); end >= 0 {
		tuple = tuple[:end]
	}

	fields := strings.Split(tuple, ",")
	var pidField, nameField string
	switch {
	case len(fields) == 7:
		pidField, nameField = fields[1], fields[4]
	case len(fields) >= 4:
		pidField, nameField = fields[1], fields[3]
	default:
		return launchEvent{}, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(pidField))
	if err != nil || pid <= 0 {
		return launchEvent{}, false
	}

	name := strings.TrimSpace(nameField)
	if name == "" {
		return launchEvent{}, false
	}
	if len(name) > maxProcessNameBytes {
		name = name[:maxProcessNameBytes]
	}

	return launchEvent{pid: pid, processName: name}, true
}
