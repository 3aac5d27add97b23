// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package sepolicy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRestrictDropsWorldAccess(t *testing.T) {
	dir := t.TempDir()
	enforce := filepath.Join(dir, "enforce")
	policy := filepath.Join(dir, "policy")
	for _, node := range []string{enforce, policy} {
		if err := os.WriteFile(node, []byte("1"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	if err := Restrict(Config{EnforceNode: enforce, PolicyNode: policy}); err != nil {
		t.Fatalf("Restrict: %v", err)
	}

	info, err := os.Stat(enforce)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o640 {
		t.Errorf("enforce mode = %o, want 640", got)
	}
	info, err = os.Stat(policy)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o440 {
		t.Errorf("policy mode = %o, want 440", got)
	}
}

func TestRestrictSkipsMissingNodes(t *testing.T) {
	dir := t.TempDir()
	err := Restrict(Config{
		EnforceNode: filepath.Join(dir, "absent-enforce"),
		PolicyNode:  filepath.Join(dir, "absent-policy"),
	})
	if err != nil {
		t.Errorf("Restrict on missing nodes = %v, want nil", err)
	}
}
