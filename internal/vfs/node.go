// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

// Package vfs implements the in-memory node tree that stands in for the
// classical sysfs GPIO hierarchy. It is a tagged-variant Node over a
// small set of capability interfaces (Directory, Attr, Link); none of
// it depends on the FUSE binding, the GPIO character device, or any
// other external collaborator, so it is unit-testable on its own.
package vfs

// Node is the capability every tree entry shares: a stat snapshot and
// the chmod/chown operations, which behave identically regardless of
// variant.
type Node interface {
	Stat() StatInfo
	Chmod(mode uint32) error
	Chown(uid, gid uint32) error
}

// DirEntry is one entry yielded by Directory.Children, in insertion
// order. It does not include "." and ".."; the FUSE adapter's Readdir
// lists exactly these entries and does not add them either.
type DirEntry struct {
	Name string
	Node Node
}

// Directory is a node that owns an ordered mapping from child name to
// child node.
type Directory interface {
	Node
	Lookup(name string) (Node, bool)
	Children() []DirEntry
	Insert(name string, n Node)
	Remove(name string) bool
}

// Attr is a regular attribute file: fixed advisory size, read/write of
// a small textual payload, and poll support (meaningful only for the
// `value` attribute; every other attribute reports an always-ready,
// never-priority Readiness).
type Attr interface {
	Node
	Read() (string, error)
	Write(payload string) error
	Poll(w Waiter) Readiness
}

// Link is a symlink: its read operation returns the stored target
// string, by value, never a pointer into the tree (the tree is a DAG
// with no cycles by construction).
type Link interface {
	Node
	Readlink() (string, error)
}
