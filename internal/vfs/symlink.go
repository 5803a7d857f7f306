// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import "syscall"

// SymlinkMode is the mode reported for every symlink node.
const SymlinkMode = syscall.S_IFLNK | 0o777

// symlink is the Link variant. Its target is stored by value: the tree
// is a strict rooted DAG and symlinks never hold a pointer into it.
type symlink struct {
	*base
	target string
}

// NewSymlink returns a symlink node pointing at target.
func NewSymlink(target string) Link {
	return &symlink{
		base:   newBase(SymlinkMode, 0),
		target: target,
	}
}

func (s *symlink) Readlink() (string, error) {
	return s.target, nil
}
