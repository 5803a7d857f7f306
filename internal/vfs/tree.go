// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import "strings"

// Tree owns the root directory of the virtual filesystem. Root
// exclusively owns every node by name in its transitive children map;
// Tree is the single handle callers use to resolve paths into nodes.
type Tree struct {
	root Directory
}

// NewTree returns a Tree with an empty root directory.
func NewTree() *Tree {
	return &Tree{root: NewDirectory(DirMode)}
}

// Root returns the tree's root directory, for callers (export/unexport,
// the hotplug integrator) that mutate it directly.
func (t *Tree) Root() Directory {
	return t.root
}

// Resolve walks path, normalized and split on "/", from the root.
// Resolving "" or "/" returns the root itself. A missing component at
// any depth, or attempting to descend through a non-directory, yields
// ErrNoSuchEntry.
func (t *Tree) Resolve(path string) (Node, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return t.root, nil
	}
	var cur Node = t.root
	for _, tok := range strings.Split(path, "/") {
		if tok == "" {
			continue
		}
		d, ok := cur.(Directory)
		if !ok {
			return nil, ErrNoSuchEntry
		}
		child, ok := d.Lookup(tok)
		if !ok {
			return nil, ErrNoSuchEntry
		}
		cur = child
	}
	return cur, nil
}
