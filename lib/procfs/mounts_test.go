// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package procfs

import (
	"strings"
	"testing"
)

func TestParseMounts(t *testing.T) {
	table := `/dev/block/dm-0 / ext4 ro,seclabel,relatime 0 0
tmpfs /dev tmpfs rw,seclabel,nosuid,relatime,mode=755 0 0
/dev/block/mmcblk0p24 /cache ext4 rw,seclabel,nosuid,nodev,noatime 0 0
/dev/block/loop0 /data/overlay/mirror ext4 rw,seclabel,relatime 0 0
`

	entries, err := ParseMounts(strings.NewReader(table))
	if err != nil {
		t.Fatalf("ParseMounts: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("len(entries) = %d, want 4", len(entries))
	}

	cache := entries[2]
	if cache.Device != "/dev/block/mmcblk0p24" {
		t.Errorf("Device = %q, want %q", cache.Device, "/dev/block/mmcblk0p24")
	}
	if cache.Mountpoint != "/cache" {
		t.Errorf("Mountpoint = %q, want %q", cache.Mountpoint, "/cache")
	}
	if cache.FSType != "ext4" {
		t.Errorf("FSType = %q, want %q", cache.FSType, "ext4")
	}
	if !strings.Contains(cache.Options, "noatime") {
		t.Errorf("Options = %q, want noatime present", cache.Options)
	}
}

func TestParseMountsSkipsShortLines(t *testing.T) {
	table := "garbage\n\n/dev/block/dm-0 / ext4 ro 0 0\n"

	entries, err := ParseMounts(strings.NewReader(table))
	if err != nil {
		t.Fatalf("ParseMounts: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Mountpoint != "/" {
		t.Errorf("Mountpoint = %q, want %q", entries[0].Mountpoint, "/")
	}
}

func TestFirstCmdlineArg(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    string
	}{
		{"plain", "zygote64\x00", "zygote64"},
		{"with args", "/system/bin/app_process\x0064\x00zygote", "/system/bin/app_process"},
		{"empty", "", ""},
		{"no terminator", "zygote", "zygote"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstCmdlineArg([]byte(tt.cmdline)); got != tt.want {
				t.Errorf("firstCmdlineArg(%q) = %q, want %q", tt.cmdline, got, tt.want)
			}
		})
	}
}

func TestMountNamespaceSelf(t *testing.T) {
	// Reading our own namespace exercises the readlink path without
	// assuming anything about the host beyond a mounted /proc.
	ns, err := MountNamespace(1)
	if err != nil {
		t.Skipf("pid 1 namespace unreadable (unprivileged): %v", err)
	}
	if !strings.HasPrefix(ns, "mnt:[") {
		t.Errorf("MountNamespace(1) = %q, want mnt:[...] form", ns)
	}
}
