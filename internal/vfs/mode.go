// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import "syscall"

// Mode bit patterns for the attribute kinds named in spec §6. Regular
// files only; DirMode (directory.go) and symlink mode (symlink.go)
// cover the other two node shapes.
const (
	// ModeWriteOnly is export/unexport's mode: --w-------.
	ModeWriteOnly = syscall.S_IFREG | 0o200

	// ModeReadOnly is base/label/ngpio's mode: r--r--r--.
	ModeReadOnly = syscall.S_IFREG | 0o444

	// ModeReadWrite is direction/edge/active_low/value/uevent's mode:
	// rw-r--r--.
	ModeReadWrite = syscall.S_IFREG | 0o644
)
