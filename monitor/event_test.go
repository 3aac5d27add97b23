// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"strings"
	"testing"
)

func TestParseLaunchEvent(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantPID  int
		wantName string
		wantOK   bool
	}{
		{
			name:     "seven field form",
			line:     "[0,4321,1000,1000,com.evil.app,0,0]",
			wantPID:  4321,
			wantName: "com.evil.app",
			wantOK:   true,
		},
		{
			name:     "seven field form with spaces",
			line:     "[0, 4321, 1000, 1000, com.evil.app, 0, 0]",
			wantPID:  4321,
			wantName: "com.evil.app",
			wantOK:   true,
		},
		{
			name:     "four field form",
			line:     "[0,4321,1000,com.evil.app]",
			wantPID:  4321,
			wantName: "com.evil.app",
			wantOK:   true,
		},
		{
			name:     "tag prefix before bracket",
			line:     "am_proc_start: [0,4321,1000,com.evil.app]",
			wantPID:  4321,
			wantName: "com.evil.app",
			wantOK:   true,
		},
		{
			name:     "five fields read as four field form",
			line:     "[0,4321,1000,com.evil.app,extra]",
			wantPID:  4321,
			wantName: "com.evil.app",
			wantOK:   true,
		},
		{name: "malformed", line: "[oops]", wantOK: false},
		{name: "no bracket", line: "0,4321,1000,com.evil.app", wantOK: false},
		{name: "non numeric pid", line: "[0,abc,1000,com.evil.app]", wantOK: false},
		{name: "empty name", line: "[0,4321,1000, ]", wantOK: false},
		{name: "too few fields", line: "[0,4321]", wantOK: false},
		{name: "negative pid", line: "[0,-5,1000,com.evil.app]", wantOK: false},
		{name: "empty line", line: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := parseLaunchEvent(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %t, want %t", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if event.pid != tt.wantPID {
				t.Errorf("pid = %d, want %d", event.pid, tt.wantPID)
			}
			if event.processName != tt.wantName {
				t.Errorf("processName = %q, want %q", event.processName, tt.wantName)
			}
		})
	}
}

func TestParseLaunchEventBoundsName(t *testing.T) {
	longName := strings.Repeat("a", 400)
	event, ok := parseLaunchEvent("[0,4321,1000," + longName + "]")
	if !ok {
		t.Fatal("parse rejected a long-name line")
	}
	if len(event.processName) != maxProcessNameBytes {
		t.Errorf("len(processName) = %d, want %d", len(event.processName), maxProcessNameBytes)
	}
}
