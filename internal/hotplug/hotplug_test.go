// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package hotplug

import (
	"errors"
	"io"
	"testing"

	"github.com/gpio-tools/gpiosysfsd/internal/base"
	"github.com/gpio-tools/gpiosysfsd/internal/chip"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMounter records bind/unbind calls without touching any real
// filesystem or chip, so Integrator's logic can be exercised with
// synthetic events as the design notes call for.
type fakeMounter struct {
	bound      map[string]int
	failBind   bool
	failUnbind bool
}

func newFakeMounter() *fakeMounter {
	return &fakeMounter{bound: make(map[string]int)}
}

func (m *fakeMounter) BindChip(ch *chip.Chip, base int) error {
	if m.failBind {
		return errors.New("mount failed")
	}
	m.bound[ch.Name] = base
	return nil
}

func (m *fakeMounter) UnbindChip(name string) error {
	if m.failUnbind {
		return errors.New("unmount failed")
	}
	delete(m.bound, name)
	return nil
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestHandleEventIgnoresBindWithNoDevPath(t *testing.T) {
	in := New(base.New(), newFakeMounter(), testLog())

	err := in.HandleEvent(Event{Action: ActionBind, Device: Device{Name: "gpiochip0"}})
	assert.NoError(t, err)
}

func TestHandleEventUnbindOfUnknownChipIsNoop(t *testing.T) {
	in := New(base.New(), newFakeMounter(), testLog())

	err := in.HandleEvent(Event{Action: ActionUnbind, Device: Device{Name: "gpiochip9"}})
	assert.NoError(t, err)
}

func TestUnknownActionIsIgnored(t *testing.T) {
	in := New(base.New(), newFakeMounter(), testLog())

	err := in.HandleEvent(Event{Action: Action(99), Device: Device{Name: "gpiochip0"}})
	assert.NoError(t, err)
}

func TestBindOpenFailureOnVanishedDeviceIsSwallowed(t *testing.T) {
	// A device that disappeared between the hotplug notification and
	// the open (ENOENT) is a transient condition, not a fatal error.
	in := New(base.New(), newFakeMounter(), testLog())

	err := in.HandleEvent(Event{
		Action: ActionBind,
		Device: Device{Name: "gpiochip99", DevPath: "/dev/does-not-exist-gpiosysfsd-test"},
	})
	require.NoError(t, err)
}

func TestSnapshotReflectsDevGpiochipEntries(t *testing.T) {
	// Paths() reads the real /dev; this only asserts it does not panic
	// and returns a well-formed (possibly empty) slice of events.
	evts := Snapshot()
	for _, ev := range evts {
		assert.Equal(t, ActionBind, ev.Action)
		assert.NotEmpty(t, ev.Device.Name)
	}
}
