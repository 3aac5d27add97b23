// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/mantle-framework/mantle/hidelist"
	"github.com/mantle-framework/mantle/lib/config"
	"github.com/mantle-framework/mantle/lib/process"
	"github.com/mantle-framework/mantle/lib/procfs"
	"github.com/mantle-framework/mantle/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		process.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("mantle-hide", pflag.ContinueOnError)
	configPath := flags.String("config", "", "configuration file (default: $"+config.EnvConfigPath+")")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "mantle-hide %s\n", version.Info())
		return nil
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: mantle-hide [--config FILE] ls | add <process> | rm <process> | status")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := hidelist.Open(ctx, hidelist.Config{Path: cfg.HideListDB})
	if err != nil {
		return err
	}
	defer store.Close()

	switch command := rest[0]; command {
	case "ls":
		for _, name := range store.List() {
			fmt.Fprintln(stdout, name)
		}
		return nil

	case "add":
		if len(rest) != 2 {
			return fmt.Errorf("usage: mantle-hide add <process>")
		}
		return store.Add(ctx, rest[1])

	case "rm":
		if len(rest) != 2 {
			return fmt.Errorf("usage: mantle-hide rm <process>")
		}
		return store.Remove(ctx, rest[1])

	case "status":
		fmt.Fprintf(stdout, "database: %s\n", cfg.HideListDB)
		fmt.Fprintf(stdout, "targets:  %d\n", len(store.List()))
		fmt.Fprintf(stdout, "daemon:   %s\n", daemonState())
		return nil

	default:
		return fmt.Errorf("unknown command %q (expected ls, add, rm, or status)", command)
	}
}

// daemonState reports whether a mantle-hided process is running.
func daemonState() string {
	pids, err := procfs.PidsByName("mantle-hided")
	if err != nil || len(pids) == 0 {
		return "not running"
	}
	return fmt.Sprintf("running (pid %d)", pids[0])
}
