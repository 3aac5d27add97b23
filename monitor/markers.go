// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Remounter toggles the root filesystem's write protection so marker
// links can be removed and recreated.
type Remounter interface {
	// RemountRoot remounts the root filesystem, read-only when
	// readonly is true, read-write otherwise.
	RemountRoot(readonly bool) error
}

// RootRemounter returns the Remounter backed by mount(2) with
// MS_REMOUNT against root ("/" in production).
func RootRemounter(root string) Remounter { return rootRemounter{root: root} }

type rootRemounter struct{ root string }

func (r rootRemounter) RemountRoot(readonly bool) error {
	flags := uintptr(unix.MS_REMOUNT)
	if readonly {
		flags |= unix.MS_RDONLY
	}
	if err := unix.Mount("", r.root, "", flags, ""); err != nil {
		return fmt.Errorf("remounting %s (readonly=%t): %w", r.root, readonly, err)
	}
	return nil
}

// Link is a marker symlink: Path is where it lives, Target is what it
// points to.
type Link struct {
	Path   string
	Target string
}

// Markers is the set of global on-disk traces of the framework that
// must vanish while any hidden target is being scrubbed: the
// root-level symlink into the mount image, the data-partition symlink
// to the framework binaries, the image-file symlink, and the boot
// configuration script.
//
// Hide and Restore operate as a unit under the monitor loop's
// single-threaded control; the reference count in the loop decides
// when each runs.
type Markers struct {
	// Root is the directory the marker paths are relative to: "/"
	// in production, a scratch directory in tests.
	Root string

	// RootLink, DataLink, and ImageLink are recreated on restore.
	RootLink  Link
	DataLink  Link
	ImageLink Link

	// ScriptPath is removed on hide but never recreated; the boot
	// flow regenerates it.
	ScriptPath string

	// Remounter flips root write protection around each operation.
	Remounter Remounter

	// Logger receives per-path failures. If nil, discarded.
	Logger *slog.Logger
}

// Hide removes every marker from disk. The root filesystem is
// remounted read-write for the duration and read-only again
// afterwards even when individual removals fail.
func (m *Markers) Hide() error {
	if err := m.Remounter.RemountRoot(false); err != nil {
		return fmt.Errorf("hiding markers: %w", err)
	}
	defer m.remountReadonly()

	for _, path := range []string{m.RootLink.Path, m.DataLink.Path, m.ImageLink.Path, m.ScriptPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(m.abs(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.log().Warn("marker removal failed", "path", path, "error", err)
		}
	}
	return nil
}

// Restore recreates the marker symlinks. The configuration script is
// not restored; only the boot flow writes it.
func (m *Markers) Restore() error {
	if err := m.Remounter.RemountRoot(false); err != nil {
		return fmt.Errorf("restoring markers: %w", err)
	}
	defer m.remountReadonly()

	for _, link := range []Link{m.DataLink, m.ImageLink, m.RootLink} {
		if link.Path == "" {
			continue
		}
		if err := os.Symlink(link.Target, m.abs(link.Path)); err != nil && !errors.Is(err, fs.ErrExist) {
			m.log().Warn("marker relink failed", "path", link.Path, "target", link.Target, "error", err)
		}
	}
	return nil
}

func (m *Markers) remountReadonly() {
	if err := m.Remounter.RemountRoot(true); err != nil {
		m.log().Error("remounting root read-only failed", "error", err)
	}
}

// abs joins a marker path onto the configured root.
func (m *Markers) abs(path string) string {
	return filepath.Join(m.Root, path)
}

func (m *Markers) log() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m.Logger
}
