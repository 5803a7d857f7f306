// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateFirstChipStartsAtMinBase(t *testing.T) {
	a := New()
	assert.Equal(t, MinBase, a.Allocate(32))
}

func TestAllocateSequentialChipsAreDisjoint(t *testing.T) {
	a := New()
	b1 := a.Allocate(32)
	b2 := a.Allocate(16)
	assert.Equal(t, MinBase, b1)
	assert.Equal(t, MinBase+32, b2)
}

func TestFreeAndReallocateReusesLowestFittingBase(t *testing.T) {
	a := New()
	b1 := a.Allocate(32) // 512
	b2 := a.Allocate(16) // 544
	_ = b2

	a.Free(b1)

	b3 := a.Allocate(8)
	assert.Equal(t, MinBase, b3)
}

func TestAllocateAfterReusedFreedTailAppendsAtEnd(t *testing.T) {
	a := New()
	a.Allocate(32)     // [512,544)
	second := a.Allocate(16) // [544,560)
	a.Free(second)
	a.Allocate(64) // [544,608) - reuses the freed gap

	got := a.Allocate(8)
	assert.Equal(t, MinBase+32+64, got)
}

func TestFreeUnknownBasePanics(t *testing.T) {
	a := New()
	assert.Panics(t, func() { a.Free(999) })
}

func TestContainsReportsMembership(t *testing.T) {
	a := New()
	base := a.Allocate(32)
	require.True(t, a.Contains(base, base))
	require.True(t, a.Contains(base, base+31))
	require.False(t, a.Contains(base, base+32))
	require.False(t, a.Contains(base, base-1))
}

func TestAllocatorConcurrentUse(t *testing.T) {
	a := New()
	done := make(chan int, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- a.Allocate(4)
		}()
	}
	seen := map[int]bool{}
	for i := 0; i < 8; i++ {
		b := <-done
		require.False(t, seen[b], "duplicate base %d", b)
		seen[b] = true
	}
}
