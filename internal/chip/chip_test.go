// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

//go:build linux
// +build linux

package chip_test

import (
	"testing"

	"github.com/gpio-tools/gpiosysfsd/internal/chip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpiosim"
)

// These tests drive the chip/line domain against a gpio-sim simulated
// chip rather than real hardware, the way go-gpiosim is used elsewhere
// in the pack: they require the gpio-sim kernel module and root.

func TestOpenReportsChipInfo(t *testing.T) {
	s, err := gpiosim.NewSimpleton(8)
	require.NoError(t, err)
	defer s.Close()

	c, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, s.ChipName(), c.Name)
	assert.Equal(t, 8, c.NGpio())
}

func TestRequestLineDefaultsToInput(t *testing.T) {
	s, err := gpiosim.NewSimpleton(4)
	require.NoError(t, err)
	defer s.Close()

	c, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	defer c.Close()

	l, err := c.RequestLine(0, "sysfs")
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, chip.DirectionIn, l.Config().Direction)
}

func TestReconfigureToOutputThenSetValue(t *testing.T) {
	s, err := gpiosim.NewSimpleton(4)
	require.NoError(t, err)
	defer s.Close()

	c, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	defer c.Close()

	l, err := c.RequestLine(1, "sysfs")
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Reconfigure(chip.Config{Direction: chip.DirectionOut}))
	require.NoError(t, l.SetValue(1))

	level, err := s.Level(1)
	require.NoError(t, err)
	assert.Equal(t, gpiosim.LevelActive, level)
}

func TestSetValueOnInputLineIsPermissionDenied(t *testing.T) {
	s, err := gpiosim.NewSimpleton(4)
	require.NoError(t, err)
	defer s.Close()

	c, err := chip.Open(s.DevPath())
	require.NoError(t, err)
	defer c.Close()

	l, err := c.RequestLine(2, "sysfs")
	require.NoError(t, err)
	defer l.Close()

	err = l.SetValue(1)
	assert.ErrorIs(t, err, chip.ErrPermissionDenied)
}

func TestPathsListsSimulatedDevice(t *testing.T) {
	s, err := gpiosim.NewSimpleton(4)
	require.NoError(t, err)
	defer s.Close()

	assert.Contains(t, chip.Paths(), s.DevPath())
}
