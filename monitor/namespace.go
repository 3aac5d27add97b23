// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"errors"
	"fmt"
)

// ErrNamespaceUnsupported means pid 1's mount-namespace handle is
// unreadable: the kernel lacks mount-namespace support and the whole
// hide feature cannot operate.
var ErrNamespaceUnsupported = errors.New("kernel does not support mount namespaces")

// maxZygoteFlavors caps the tracked zygote namespaces: one 32-bit,
// one 64-bit.
const maxZygoteFlavors = 2

// discoverNamespaces captures the init namespace identity and the
// namespace of each zygote flavor. It blocks until at least one
// zygote is found (polling at ZygotePollInterval) or ctx is
// cancelled. Both identity sets are immutable afterwards.
func (m *Monitor) discoverNamespaces(ctx context.Context) error {
	initNS, err := m.proc.MountNamespace(1)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNamespaceUnsupported, err)
	}
	m.initNS = initNS
	m.logger.Info("init namespace resolved", "ns", initNS)

	// The primary zygote may not be up yet (boot, or a framework
	// restart). Poll until it appears; the feature is simply
	// unavailable until then.
	primary := m.zygoteNames[0]
	for len(m.zygoteNS) == 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.clock.After(m.zygotePollInterval):
		}
		if err := m.recordZygotes(ctx, primary); err != nil {
			return err
		}
	}

	// Secondary flavors are sampled once: if a 64-bit zygote exists
	// it is already running by the time the primary is.
	for _, name := range m.zygoteNames[1:] {
		if err := m.recordZygotes(ctx, name); err != nil {
			return err
		}
	}

	m.logger.Info("zygote namespaces resolved", "count", len(m.zygoteNS), "ns", m.zygoteNS)
	return nil
}

// recordZygotes resolves and stores the namespace of every process
// named name, up to the flavor cap.
func (m *Monitor) recordZygotes(ctx context.Context, name string) error {
	pids, err := m.proc.PidsByName(name)
	if err != nil {
		return fmt.Errorf("enumerating %q processes: %w", name, err)
	}
	for _, pid := range pids {
		if len(m.zygoteNS) >= maxZygoteFlavors {
			return nil
		}
		if err := m.recordZygoteNamespace(ctx, pid); err != nil {
			return err
		}
	}
	return nil
}

// recordZygoteNamespace samples pid's namespace until it diverges
// from init's. A freshly started zygote reads identically to init
// until it performs its own unshare, so an immediate read could cache
// the wrong identity. A pid that vanishes mid-sample is skipped.
func (m *Monitor) recordZygoteNamespace(ctx context.Context, pid int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.clock.After(m.zygoteSettleInterval):
		}
		ns, err := m.proc.MountNamespace(pid)
		if err != nil {
			return nil
		}
		if ns != m.initNS {
			m.zygoteNS = append(m.zygoteNS, ns)
			m.logger.Info("zygote namespace recorded", "pid", pid, "ns", ns)
			return nil
		}
	}
}

// isZygoteNamespace reports whether ns matches any tracked zygote
// namespace. Comparison is exact string equality on the resolved
// handle target.
func (m *Monitor) isZygoteNamespace(ns string) bool {
	for _, zygote := range m.zygoteNS {
		if ns == zygote {
			return true
		}
	}
	return false
}
