// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

//go:build linux
// +build linux

package gpiofs

import (
	"fmt"
	"io"
	"testing"

	"github.com/gpio-tools/gpiosysfsd/internal/base"
	"github.com/gpio-tools/gpiosysfsd/internal/chip"
	"github.com/gpio-tools/gpiosysfsd/internal/vfs"
	"github.com/gpio-tools/gpiosysfsd/internal/watcher"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestSystem(t *testing.T) *System {
	w, err := watcher.New(testLog())
	require.NoError(t, err)
	t.Cleanup(w.Stop)
	return New(base.New(), w, "sysfs", testLog())
}

func writeAttr(t *testing.T, sys *System, path, payload string) error {
	n, err := sys.Tree().Resolve(path)
	require.NoError(t, err)
	a, ok := n.(vfs.Attr)
	require.True(t, ok)
	return a.Write(payload)
}

func readAttr(t *testing.T, sys *System, path string) string {
	n, err := sys.Tree().Resolve(path)
	require.NoError(t, err)
	a, ok := n.(vfs.Attr)
	require.True(t, ok)
	s, err := a.Read()
	require.NoError(t, err)
	return s
}

func TestBindChipInsertsGpiochipDirectory(t *testing.T) {
	sys := newTestSystem(t)

	s, err := gpiosim.NewSimpleton(8)
	require.NoError(t, err)
	defer s.Close()

	ch, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	ch.SysfsPath = "/sys/devices/fake"

	require.NoError(t, sys.BindChip(ch, 512))

	assert.Equal(t, "512\n", readAttr(t, sys, "gpiochip512/base"))
	assert.Equal(t, "8\n", readAttr(t, sys, "gpiochip512/ngpio"))
}

func TestExportThenUnexportRoundTrips(t *testing.T) {
	sys := newTestSystem(t)

	s, err := gpiosim.NewSimpleton(8)
	require.NoError(t, err)
	defer s.Close()

	ch, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	ch.SysfsPath = "/sys/devices/fake"
	require.NoError(t, sys.BindChip(ch, 512))

	require.NoError(t, writeAttr(t, sys, "export", "512"))
	assert.Equal(t, "in\n", readAttr(t, sys, "gpio512/direction"))

	require.NoError(t, writeAttr(t, sys, "gpio512/direction", "out"))
	require.NoError(t, writeAttr(t, sys, "gpio512/value", "1"))
	assert.Equal(t, "1\n", readAttr(t, sys, "gpio512/value"))

	require.NoError(t, writeAttr(t, sys, "unexport", "512"))
	_, err = sys.Tree().Resolve("gpio512")
	assert.ErrorIs(t, err, vfs.ErrNoSuchEntry)
}

func TestActiveLowAcceptsAnySingleDigit(t *testing.T) {
	sys := newTestSystem(t)

	s, err := gpiosim.NewSimpleton(8)
	require.NoError(t, err)
	defer s.Close()

	ch, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	ch.SysfsPath = "/sys/devices/fake"
	require.NoError(t, sys.BindChip(ch, 512))
	require.NoError(t, writeAttr(t, sys, "export", "512"))

	require.NoError(t, writeAttr(t, sys, "gpio512/active_low", "2"))
	assert.Equal(t, "1\n", readAttr(t, sys, "gpio512/active_low"))

	require.NoError(t, writeAttr(t, sys, "gpio512/active_low", "0"))
	assert.Equal(t, "0\n", readAttr(t, sys, "gpio512/active_low"))

	err = writeAttr(t, sys, "gpio512/active_low", "x")
	assert.ErrorIs(t, err, vfs.ErrInvalidArgument)
}

func TestExportOfUnknownLineFailsInvalidArgument(t *testing.T) {
	sys := newTestSystem(t)
	err := writeAttr(t, sys, "export", "999999")
	assert.ErrorIs(t, err, vfs.ErrInvalidArgument)
}

func TestUnbindChipCascadesLineRemoval(t *testing.T) {
	sys := newTestSystem(t)

	s, err := gpiosim.NewSimpleton(4)
	require.NoError(t, err)
	defer s.Close()

	ch, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	ch.SysfsPath = "/sys/devices/fake"
	require.NoError(t, sys.BindChip(ch, 512))
	require.NoError(t, writeAttr(t, sys, "export", "513"))

	require.NoError(t, sys.UnbindChip(ch.Name))

	_, err = sys.Tree().Resolve("gpio513")
	assert.ErrorIs(t, err, vfs.ErrNoSuchEntry)
	_, err = sys.Tree().Resolve(fmt.Sprintf("gpiochip%d", 512))
	assert.ErrorIs(t, err, vfs.ErrNoSuchEntry)
}
