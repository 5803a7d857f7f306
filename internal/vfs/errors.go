// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import (
	"errors"
	"syscall"
)

// Sentinel errors returned by Node operations. These are mapped to the
// Linux errno surface by Errno, rather than ad hoc at each call site.
var (
	// ErrNoSuchEntry indicates path resolution missed.
	ErrNoSuchEntry = errors.New("vfs: no such entry")

	// ErrPermissionDenied indicates a write to a read-only node, or a
	// structural operation (mkdir, unlink, rmdir on a file, readlink on
	// a non-symlink) that classical sysfs does not support.
	ErrPermissionDenied = errors.New("vfs: permission denied")

	// ErrInvalidArgument indicates a write payload failed to parse.
	ErrInvalidArgument = errors.New("vfs: invalid argument")

	// ErrAccessDenied indicates an mknod attempt.
	ErrAccessDenied = errors.New("vfs: access denied")

	// ErrNotADirectory indicates rmdir was attempted on a directory
	// node, which sysfs never allows to be removed by the client.
	ErrNotADirectory = errors.New("vfs: not a directory")
)

// Errno maps a Node-operation error to the Linux errno surface described
// in spec §6. It is the single adapter used by the FUSE binding; no call
// site should construct a syscall.Errno directly from a vfs error.
func Errno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNoSuchEntry):
		return syscall.ENOENT
	case errors.Is(err, ErrPermissionDenied):
		return syscall.EPERM
	case errors.Is(err, ErrInvalidArgument):
		return syscall.EINVAL
	case errors.Is(err, ErrAccessDenied):
		return syscall.EACCES
	case errors.Is(err, ErrNotADirectory):
		return syscall.ENOTDIR
	default:
		return syscall.EIO
	}
}
