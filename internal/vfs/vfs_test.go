// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRoot(t *testing.T) {
	tr := NewTree()
	n, err := tr.Resolve("/")
	require.NoError(t, err)
	assert.Equal(t, tr.Root(), n)
}

func TestResolveMissingYieldsNoSuchEntry(t *testing.T) {
	tr := NewTree()
	_, err := tr.Resolve("/gpio520")
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestResolveDescendsThroughDirectories(t *testing.T) {
	tr := NewTree()
	chipDir := NewDirectory(DirMode)
	chipDir.Insert("base", NewConstReadOnly(ModeReadOnly, "512"))
	tr.Root().Insert("gpiochip512", chipDir)

	n, err := tr.Resolve("gpiochip512/base")
	require.NoError(t, err)
	a, ok := n.(Attr)
	require.True(t, ok)
	got, err := a.Read()
	require.NoError(t, err)
	assert.Equal(t, "512\n", got)
}

func TestResolveThroughNonDirectoryFails(t *testing.T) {
	tr := NewTree()
	tr.Root().Insert("ngpio", NewConstReadOnly(ModeReadOnly, "32"))
	_, err := tr.Resolve("ngpio/base")
	assert.ErrorIs(t, err, ErrNoSuchEntry)
}

func TestConstReadOnlyRejectsWrite(t *testing.T) {
	a := NewConstReadOnly(ModeReadOnly, "32")
	err := a.Write("8")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestReadWriteRoundTrips(t *testing.T) {
	value := "in"
	a := NewReadWrite(ModeReadWrite, func() string { return value },
		func(payload string) error {
			if payload != "in" && payload != "out" {
				return ErrInvalidArgument
			}
			value = payload
			return nil
		})
	got, err := a.Read()
	require.NoError(t, err)
	assert.Equal(t, "in\n", got)

	require.NoError(t, a.Write("out"))
	got, err = a.Read()
	require.NoError(t, err)
	assert.Equal(t, "out\n", got)
}

func TestReadWriteInvalidPayloadLeavesStateUnchanged(t *testing.T) {
	value := "0"
	a := NewReadWrite(ModeReadWrite, func() string { return value },
		func(payload string) error {
			if payload != "0" && payload != "1" {
				return ErrInvalidArgument
			}
			value = payload
			return nil
		})
	err := a.Write("junk")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	got, _ := a.Read()
	assert.Equal(t, "0\n", got)
}

func TestExportControlParsesDigitsOnly(t *testing.T) {
	var got int
	a := NewExportControl(ModeWriteOnly, func(n int) error {
		got = n
		return nil
	})
	require.NoError(t, a.Write("520"))
	assert.Equal(t, 520, got)

	err := a.Write("junk")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValueAttrPollReportsPriorityOnlyAfterNotify(t *testing.T) {
	level := 0
	a, ps := NewValueAttr(ModeReadWrite, func() string {
		if level == 0 {
			return "0"
		}
		return "1"
	}, func(payload string) error {
		if payload == "0" {
			level = 0
		} else {
			level = 1
		}
		return nil
	})

	w := &fakeWaiter{}
	r := a.Poll(w)
	assert.False(t, r.Priority)
	assert.True(t, r.Readable)
	assert.True(t, r.Writable)

	ps.NotifyPoll()
	assert.True(t, w.woken)

	r = a.Poll(w)
	assert.True(t, r.Priority)

	r = a.Poll(w)
	assert.False(t, r.Priority)
}

type fakeWaiter struct{ woken bool }

func (f *fakeWaiter) Wake() { f.woken = true }

func TestUeventAttrValidatesPayload(t *testing.T) {
	var stored string
	a := NewUeventAttr(ModeReadWrite, func() string { return stored },
		func(payload string) error {
			stored = payload
			return nil
		})

	err := a.Write("add 12345678-1234-1234-1234-123456789abc KEY=VAL")
	require.NoError(t, err)

	err = a.Write("junk")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = a.Write("add not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSymlinkReadlink(t *testing.T) {
	l := NewSymlink("../../devices/platform/gpio-sim.0/gpiochip0")
	target, err := l.Readlink()
	require.NoError(t, err)
	assert.Equal(t, "../../devices/platform/gpio-sim.0/gpiochip0", target)
}

func TestDirectoryInsertRemove(t *testing.T) {
	d := NewDirectory(DirMode)
	d.Insert("export", NewExportControl(ModeWriteOnly, func(int) error { return nil }))
	d.Insert("unexport", NewExportControl(ModeWriteOnly, func(int) error { return nil }))

	children := d.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "export", children[0].Name)
	assert.Equal(t, "unexport", children[1].Name)

	assert.True(t, d.Remove("export"))
	assert.False(t, d.Remove("export"))
	assert.Len(t, d.Children(), 1)
}

func TestErrnoMapping(t *testing.T) {
	assert.Equal(t, Errno(nil), Errno(nil))
	assert.NotEqual(t, Errno(ErrNoSuchEntry), Errno(ErrPermissionDenied))
}
