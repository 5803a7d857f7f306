// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

// Package base assigns non-overlapping integer base ranges to GPIO
// chips as they are bound and unbound, so that exported line numbers
// (base + offset) are globally unique and stable for a chip's lifetime.
package base

import (
	"fmt"
	"sort"
	"sync"
)

// MinBase is the lowest base ever handed out. Classical sysfs GPIO
// used low numbers for the kernel's own chip assignments, so new
// allocations start above them.
const MinBase = 512

type interval struct {
	base int
	size int
}

func (iv interval) end() int {
	return iv.base + iv.size
}

// Allocator assigns disjoint [base, base+size) integer ranges.
//
// It is safe for concurrent use.
type Allocator struct {
	mu        sync.Mutex
	minBase   int
	intervals []interval
}

// New returns an empty Allocator that hands out bases starting at MinBase.
func New() *Allocator {
	return &Allocator{minBase: MinBase}
}

// NewFrom returns an empty Allocator that hands out bases starting at
// start instead of MinBase. Used to honor the daemon's --base override.
func NewFrom(start int) *Allocator {
	return &Allocator{minBase: start}
}

// Allocate returns the lowest base >= the allocator's starting base at
// which [base, base+size) does not overlap any currently allocated
// interval, and reserves it.
func (a *Allocator) Allocate(size int) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.intervals) == 0 {
		a.intervals = append(a.intervals, interval{base: a.minBase, size: size})
		return a.minBase
	}

	candidate := a.minBase
	for _, iv := range a.intervals {
		if candidate+size <= iv.base {
			break
		}
		if iv.end() > candidate {
			candidate = iv.end()
		}
	}
	a.insertLocked(interval{base: candidate, size: size})
	return candidate
}

// insertLocked keeps a.intervals sorted by base. Callers must hold a.mu.
func (a *Allocator) insertLocked(iv interval) {
	idx := sort.Search(len(a.intervals), func(i int) bool {
		return a.intervals[i].base > iv.base
	})
	a.intervals = append(a.intervals, interval{})
	copy(a.intervals[idx+1:], a.intervals[idx:])
	a.intervals[idx] = iv
}

// Free releases the interval starting at base. Freeing a base that was
// never allocated is a programming error and panics, matching the
// allocator's invariant that every Free is paired with an Allocate.
func (a *Allocator) Free(base int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, iv := range a.intervals {
		if iv.base == base {
			a.intervals = append(a.intervals[:i], a.intervals[i+1:]...)
			return
		}
	}
	panic(fmt.Sprintf("base: Free(%d): no such interval", base))
}

// Contains reports whether n falls within the interval allocated at
// base, returning false if base was never allocated or n is out of
// the interval's range.
func (a *Allocator) Contains(base, n int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, iv := range a.intervals {
		if iv.base == base {
			return n >= iv.base && n < iv.end()
		}
	}
	return false
}
