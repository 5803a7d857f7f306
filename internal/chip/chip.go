// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The gpiosysfsd Authors.

// Package chip wraps the Linux GPIO character-device uAPI (v2 ABI,
// via internal/uapi) with the Chip/Line domain model spec §3 and §4.3
// describe: chip enumeration, line request/reconfigure/read/write/
// release, narrowed to what the sysfs proxy needs. It is the same
// shape as the teacher's gpiod.Chip/gpiod.Line, generalized from the
// general-purpose library's v1+v2 dual ABI down to v2-only (the proxy
// targets kernels new enough to expose GPIO_V2_GET_LINEINFO_IOCTL, so
// there is no reason to carry the v1 fallback).
package chip

import (
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/gpio-tools/gpiosysfsd/internal/uapi"
	"golang.org/x/sys/unix"
)

// Chip represents a single open GPIO character device.
type Chip struct {
	f *os.File

	// Name is the system name for this device, e.g. "gpiochip0".
	Name string

	// Label is the driver-supplied label.
	Label string

	// SysfsPath is the chip's original sysfs device directory, used to
	// populate the `device` and `power` symlinks. Set by the hotplug
	// integrator after Open, since it comes from the hotplug event
	// rather than the character device itself.
	SysfsPath string

	ngpio int

	mu     sync.Mutex
	closed bool
}

// Paths returns the device-node paths of every gpiochip currently
// present under /dev, without opening or validating them. Used by the
// hotplug integrator to synthesize bind events at startup.
func Paths() []string {
	entries, err := os.ReadDir("/dev")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "gpiochip") {
			out = append(out, path.Join("/dev", e.Name()))
		}
	}
	return out
}

// Open opens the GPIO character device at devPath and reads its chip
// info.
func Open(devPath string) (*Chip, error) {
	f, err := os.OpenFile(devPath, unix.O_CLOEXEC|os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	ci, err := uapi.GetChipInfo(f.Fd())
	if err != nil {
		f.Close()
		return nil, err
	}
	label := uapi.BytesToString(ci.Label[:])
	if label == "" {
		label = "unknown"
	}
	return &Chip{
		f:     f,
		Name:  uapi.BytesToString(ci.Name[:]),
		Label: label,
		ngpio: int(ci.Lines),
	}, nil
}

// NGpio returns the number of lines on the chip.
func (c *Chip) NGpio() int {
	return c.ngpio
}

// Close releases the chip's file descriptor. It does not release any
// lines requested from it; those must be closed independently, and the
// hotplug integrator's cascade-remove does so before calling Close.
func (c *Chip) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	c.mu.Unlock()
	return c.f.Close()
}

// LineInfo returns the kernel's current info for offset, without
// requesting the line.
func (c *Chip) LineInfo(offset int) (uapi.LineInfoV2, error) {
	if offset < 0 || offset >= c.ngpio {
		return uapi.LineInfoV2{}, ErrInvalidOffset
	}
	return uapi.GetLineInfoV2(c.f.Fd(), offset)
}

// RequestLine requests offset with consumer label, mirroring the
// line's current direction/edge/active_low as its initial config (the
// "as-is" semantics spec §4.2 calls for on export).
func (c *Chip) RequestLine(offset int, consumer string) (*Line, error) {
	if offset < 0 || offset >= c.ngpio {
		return nil, ErrInvalidOffset
	}
	li, err := c.LineInfo(offset)
	if err != nil {
		return nil, err
	}
	cfg := configFromInfo(li)

	lr := uapi.LineRequest{
		Lines: 1,
		Config: uapi.LineConfig{
			Flags: cfg.flags(),
		},
	}
	lr.Offsets[0] = uint32(offset)
	copy(lr.Consumer[:len(lr.Consumer)-1], consumer)

	if err := uapi.GetLine(c.f.Fd(), &lr); err != nil {
		return nil, err
	}
	return &Line{
		fd:       uintptr(lr.Fd),
		offset:   offset,
		chipName: c.Name,
		cfg:      cfg,
	}, nil
}

func (c *Chip) String() string {
	return fmt.Sprintf("%s(%s, %d lines)", c.Name, c.Label, c.ngpio)
}
