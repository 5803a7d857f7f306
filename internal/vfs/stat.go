// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import (
	"sync"
	"time"
)

// attrSize is the advisory size reported for every regular attribute
// file, regardless of the actual length of its rendered content.
const attrSize = 4096

// StatInfo is the stat snapshot carried by every node: mode, link count,
// size, ownership and the three timestamps. Directories and symlinks
// report size 0; regular attributes always report attrSize.
type StatInfo struct {
	Mode  uint32
	Nlink uint32
	Size  uint64
	Uid   uint32
	Gid   uint32
	Atime time.Time
	Ctime time.Time
	Mtime time.Time
}

// base holds the stat metadata shared by every node variant, plus the
// chmod/chown behavior common to all of them. It is embedded, not
// inherited from, per the polymorphic-node design note.
type base struct {
	mu   sync.Mutex
	stat StatInfo
}

func newBase(mode uint32, size uint64) *base {
	now := time.Now()
	return &base{
		stat: StatInfo{
			Mode:  mode,
			Nlink: 1,
			Size:  size,
			Atime: now,
			Ctime: now,
			Mtime: now,
		},
	}
}

func (b *base) Stat() StatInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stat
}

func (b *base) Chmod(mode uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	// Preserve the type bits (S_IFDIR etc.), replace only the
	// permission bits, matching what the kernel actually asks for.
	b.stat.Mode = (b.stat.Mode &^ 0o7777) | (mode & 0o7777)
	b.stat.Ctime = time.Now()
	return nil
}

func (b *base) Chown(uid, gid uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stat.Uid = uid
	b.stat.Gid = gid
	b.stat.Ctime = time.Now()
	return nil
}

func (b *base) touch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stat.Mtime = time.Now()
}
