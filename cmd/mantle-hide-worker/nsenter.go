// Copyright 2026 The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

/*
#define _GNU_SOURCE
#include <fcntl.h>
#include <sched.h>
#include <stdio.h>
#include <stdlib.h>
#include <unistd.h>

// mantle_join_target_ns runs before the Go runtime starts. It joins
// the mount namespace of the pid named by MANTLE_WORKER_TARGET_PID.
// This must happen pre-main: setns(CLONE_NEWNS) fails once the runtime
// has spawned its scheduler threads.
//
// Failure is recorded in MANTLE_WORKER_NS_JOIN_FAILED rather than
// aborting: the Go side must still resume the suspended target and
// report completion, or the target stays frozen forever.
__attribute__((constructor)) static void mantle_join_target_ns(void) {
	const char *pid = getenv("MANTLE_WORKER_TARGET_PID");
	if (pid == NULL || pid[0] == '\0') {
		return;
	}

	char path[64];
	snprintf(path, sizeof(path), "/proc/%s/ns/mnt", pid);

	int fd = open(path, O_RDONLY);
	if (fd < 0) {
		setenv("MANTLE_WORKER_NS_JOIN_FAILED", "1", 1);
		return;
	}
	if (setns(fd, CLONE_NEWNS) != 0) {
		setenv("MANTLE_WORKER_NS_JOIN_FAILED", "1", 1);
	}
	close(fd);
}
*/
import "C"
