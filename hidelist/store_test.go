// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package hidelist

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), Config{
		Path: filepath.Join(t.TempDir(), "hide.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestAddMatchRemove(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if store.Match("com.evil.app") {
		t.Error("Match on empty store = true, want false")
	}

	if err := store.Add(ctx, "com.evil.app"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !store.Match("com.evil.app") {
		t.Error("Match after Add = false, want true")
	}
	if store.Match("com.evil") {
		t.Error("Match is prefix-matching, want exact string equality")
	}

	if err := store.Remove(ctx, "com.evil.app"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Match("com.evil.app") {
		t.Error("Match after Remove = true, want false")
	}
}

func TestAddDuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i := 0; i < 2; i++ {
		if err := store.Add(ctx, "com.evil.app"); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if got := store.List(); len(got) != 1 {
		t.Errorf("List = %v, want one entry", got)
	}
}

func TestListSorted(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, name := range []string{"org.b", "com.a", "net.c"} {
		if err := store.Add(ctx, name); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}

	got := store.List()
	want := []string{"com.a", "net.c", "org.b"}
	if !slices.Equal(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestPersistenceAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hide.db")

	first, err := Open(ctx, Config{Path: path})
	if err != nil {
		t.Fatalf("Open first: %v", err)
	}
	if err := first.Add(ctx, "com.evil.app"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Open(ctx, Config{Path: path})
	if err != nil {
		t.Fatalf("Open second: %v", err)
	}
	defer second.Close()

	if !second.Match("com.evil.app") {
		t.Error("persisted target not loaded on reopen")
	}
}

func TestReloadPicksUpExternalMutations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hide.db")

	daemon, err := Open(ctx, Config{Path: path})
	if err != nil {
		t.Fatalf("Open daemon store: %v", err)
	}
	defer daemon.Close()

	// A second store on the same database stands in for the CLI.
	cli, err := Open(ctx, Config{Path: path})
	if err != nil {
		t.Fatalf("Open cli store: %v", err)
	}
	if err := cli.Add(ctx, "com.evil.app"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := cli.Close(); err != nil {
		t.Fatalf("Close cli store: %v", err)
	}

	if daemon.Match("com.evil.app") {
		t.Fatal("Match sees external mutation before Reload")
	}
	if err := daemon.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !daemon.Match("com.evil.app") {
		t.Error("Match after Reload = false, want true")
	}
}

func TestAddEmptyNameRejected(t *testing.T) {
	store := openTestStore(t)
	if err := store.Add(context.Background(), ""); err == nil {
		t.Error("Add(\"\") = nil, want error")
	}
}
