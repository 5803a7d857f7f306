// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import (
	"syscall"
	"time"
)

// DirMode is the mode of every directory node in the tree (§6:
// drwxr-xr-x).
const DirMode = syscall.S_IFDIR | 0o755

// dir is the Directory variant: an ordered mapping from child name to
// child node, guarded by its own mutex so export/unexport and the
// hotplug integrator can mutate it from different goroutines.
type dir struct {
	*base
	order    []string
	children map[string]Node
}

// NewDirectory creates an empty directory node with the given mode
// (normally DirMode, but callers may pass a different mode bit pattern
// if ever needed).
func NewDirectory(mode uint32) Directory {
	return &dir{
		base:     newBase(mode, 0),
		children: make(map[string]Node),
	}
}

func (d *dir) Lookup(name string) (Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.children[name]
	return n, ok
}

func (d *dir) Children() []DirEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DirEntry, len(d.order))
	for i, name := range d.order {
		out[i] = DirEntry{Name: name, Node: d.children[name]}
	}
	return out
}

func (d *dir) Insert(name string, n Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.children[name]; !exists {
		d.order = append(d.order, name)
	}
	d.children[name] = n
	d.touchLocked()
}

func (d *dir) Remove(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.children[name]; !exists {
		return false
	}
	delete(d.children, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.touchLocked()
	return true
}

// touchLocked updates mtime; callers must already hold d.mu, so it
// can't reuse base.touch (which takes the lock itself).
func (d *dir) touchLocked() {
	d.stat.Mtime = time.Now()
}
