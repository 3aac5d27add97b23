// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package sepolicy adjusts the visibility of the SELinux policy
// nodes so a scrubbed process cannot fingerprint the framework
// through them. It is invoked by the unmount worker before the
// namespace surgery; failures are reported but never fatal.
package sepolicy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultEnforceNode and DefaultPolicyNode are the selinuxfs paths
// adjusted by Restrict.
const (
	DefaultEnforceNode = "/sys/fs/selinux/enforce"
	DefaultPolicyNode  = "/sys/fs/selinux/policy"
)

// Config holds the nodes Restrict operates on. Zero values select the
// defaults; tests point them at scratch files.
type Config struct {
	EnforceNode string
	PolicyNode  string
}

// Restrict drops world access on the enforcement and policy nodes.
// Nodes that do not exist (SELinux disabled, permissive kernels) are
// skipped; any other failure is returned for logging.
func Restrict(cfg Config) error {
	enforce := cfg.EnforceNode
	if enforce == "" {
		enforce = DefaultEnforceNode
	}
	policy := cfg.PolicyNode
	if policy == "" {
		policy = DefaultPolicyNode
	}

	var errs []error
	for node, mode := range map[string]os.FileMode{
		enforce: 0o640,
		policy:  0o440,
	} {
		if err := os.Chmod(node, mode); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("restricting %s: %w", node, err))
		}
	}
	return errors.Join(errs...)
}
