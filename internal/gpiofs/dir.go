// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package gpiofs

import (
	"fmt"
	"strconv"

	"github.com/gpio-tools/gpiosysfsd/internal/chip"
	"github.com/gpio-tools/gpiosysfsd/internal/vfs"
)

// newChipDir builds the gpiochip<base> directory spec §6 describes:
// base/label/ngpio (const read-only), uevent, and the device/power/
// subsystem symlinks.
func (s *System) newChipDir(ch *chip.Chip, base int) vfs.Directory {
	d := vfs.NewDirectory(vfs.DirMode)
	d.Insert("base", vfs.NewConstReadOnly(vfs.ModeReadOnly, strconv.Itoa(base)))
	d.Insert("label", vfs.NewConstReadOnly(vfs.ModeReadOnly, ch.Label))
	d.Insert("ngpio", vfs.NewConstReadOnly(vfs.ModeReadOnly, strconv.Itoa(ch.NGpio())))

	var uevent string
	d.Insert("uevent", vfs.NewUeventAttr(vfs.ModeReadWrite,
		func() string { return uevent },
		func(payload string) error { uevent = payload; return nil },
	))

	d.Insert("device", vfs.NewSymlink(ch.SysfsPath))
	d.Insert("power", vfs.NewSymlink(ch.SysfsPath+"/power"))
	d.Insert("subsystem", vfs.NewSymlink(".."))
	return d
}

// newLineDir builds the gpio<N> directory spec §6 describes:
// direction/edge/active_low/value plus device/power/subsystem symlinks
// and uevent. Returns the directory and the `value` attribute's
// PollState for the caller to wire into the event watcher.
func (s *System) newLineDir(chipName string, line *chip.Line) (vfs.Directory, *vfs.PollState) {
	d := vfs.NewDirectory(vfs.DirMode)

	d.Insert("direction", vfs.NewReadWrite(vfs.ModeReadWrite,
		func() string { return line.Config().Direction.String() },
		func(payload string) error {
			dir, ok := chip.ParseDirection(payload)
			if !ok {
				return vfs.ErrInvalidArgument
			}
			cfg := line.Config()
			cfg.Direction = dir
			return line.Reconfigure(cfg)
		},
	))

	d.Insert("edge", vfs.NewReadWrite(vfs.ModeReadWrite,
		func() string { return line.Config().Edge.String() },
		func(payload string) error {
			edge, ok := chip.ParseEdge(payload)
			if !ok {
				return vfs.ErrInvalidArgument
			}
			cfg := line.Config()
			cfg.Edge = edge
			return line.Reconfigure(cfg)
		},
	))

	d.Insert("active_low", vfs.NewReadWrite(vfs.ModeReadWrite,
		func() string {
			if line.Config().ActiveLow {
				return "1"
			}
			return "0"
		},
		func(payload string) error {
			if len(payload) != 1 || payload[0] < '0' || payload[0] > '9' {
				return vfs.ErrInvalidArgument
			}
			cfg := line.Config()
			cfg.ActiveLow = payload[0] != '0'
			return line.Reconfigure(cfg)
		},
	))

	valueAttr, poll := vfs.NewValueAttr(vfs.ModeReadWrite,
		func() string {
			v, err := line.Value()
			if err != nil {
				return "0"
			}
			return strconv.Itoa(v)
		},
		func(payload string) error {
			if payload != "0" && payload != "1" {
				return vfs.ErrInvalidArgument
			}
			v, _ := strconv.Atoi(payload)
			return line.SetValue(v)
		},
	)
	d.Insert("value", valueAttr)

	var uevent string
	d.Insert("uevent", vfs.NewUeventAttr(vfs.ModeReadWrite,
		func() string { return uevent },
		func(payload string) error { uevent = payload; return nil },
	))

	chipDirName := fmt.Sprintf("gpiochip%d", s.chipBaseOf(chipName))
	d.Insert("device", vfs.NewSymlink("../"+chipDirName))
	d.Insert("power", vfs.NewSymlink("../"+chipDirName+"/power"))
	d.Insert("subsystem", vfs.NewSymlink(".."))

	return d, poll
}

// chipBaseOf returns the base currently assigned to chipName. Used only
// while building a line directory immediately after export, while the
// chip entry is guaranteed to still be present.
func (s *System) chipBaseOf(chipName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ce, ok := s.chips[chipName]; ok {
		return ce.base
	}
	return 0
}
