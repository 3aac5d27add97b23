// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysprops clears the framework's system-property markers by
// invoking the platform property tool. It is invoked by the unmount
// worker; failures are reported but never fatal.
package sysprops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// Config holds the property tool invocation and the marker properties
// to delete.
type Config struct {
	// Tool is the property-deletion command; the property name is
	// appended as the final argument. Default
	// ["resetprop", "--delete"].
	Tool []string

	// Properties are the marker property names to clear.
	Properties []string

	// Logger receives per-property failures. If nil, discarded.
	Logger *slog.Logger
}

// Clear deletes each configured property independently; one failed
// deletion does not stop the rest. The joined failures are returned
// for logging.
func Clear(ctx context.Context, cfg Config) error {
	tool := cfg.Tool
	if len(tool) == 0 {
		tool = []string{"resetprop", "--delete"}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var errs []error
	for _, property := range cfg.Properties {
		args := append(append([]string{}, tool[1:]...), property)
		if output, err := exec.CommandContext(ctx, tool[0], args...).CombinedOutput(); err != nil {
			logger.Warn("property deletion failed",
				"property", property,
				"output", string(output),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("deleting %s: %w", property, err))
		}
	}
	return errors.Join(errs...)
}
