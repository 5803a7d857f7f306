// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

// Package hotplug implements the Hotplug Integrator (spec §4.6):
// consuming chip add/remove events, mutating the node tree and base
// allocator through a Mounter, and snapshotting existing chips at
// startup. It is generalized from the teacher's mockup/udev.go, a
// test-only one-shot chip matcher, into a long-lived subscription that
// the core drives through the Source/Mounter interfaces so it stays
// testable with synthetic events, per the design notes.
package hotplug

import (
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/gpio-tools/gpiosysfsd/internal/base"
	"github.com/gpio-tools/gpiosysfsd/internal/chip"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Source produces a stream of hotplug events. Its concrete
// implementation (udev_source.go) wraps github.com/pilebones/go-udev; tests
// can supply a channel-backed fake instead.
type Source interface {
	Events() <-chan Event
	Close() error
}

// Mounter is the subset of the VFS/chip wiring the integrator drives:
// inserting and removing gpiochip<base> directories. Implemented by
// internal/gpiofs.System.
type Mounter interface {
	BindChip(ch *chip.Chip, base int) error
	UnbindChip(name string) error
}

type boundChip struct {
	chip *chip.Chip
	base int
}

// Integrator consumes Events, driving alloc and mounter. HandleEvent is
// the pure core; Run layers the blocking Source consumption and the
// fatal-error-terminates-the-process policy spec §4.6 and §7 describe
// on top of it.
type Integrator struct {
	alloc   *base.Allocator
	mounter Mounter
	log     *logrus.Entry

	mu    sync.Mutex
	chips map[string]*boundChip
}

// New returns an Integrator driving mounter's tree mutations and
// alloc's base assignment.
func New(alloc *base.Allocator, mounter Mounter, log *logrus.Entry) *Integrator {
	return &Integrator{
		alloc:   alloc,
		mounter: mounter,
		log:     log,
		chips:   make(map[string]*boundChip),
	}
}

// Snapshot scans /dev/gpiochip* and returns a synthetic ActionBind
// event for each, for the startup enumeration spec §4.6 describes.
func Snapshot() []Event {
	var out []Event
	for _, devPath := range chip.Paths() {
		name := path.Base(devPath)
		out = append(out, Event{
			Action: ActionBind,
			Device: Device{
				Name:      name,
				DevPath:   devPath,
				SysfsPath: fmt.Sprintf("/sys/bus/gpio/devices/%s", name),
			},
		})
	}
	return out
}

// HandleEvent applies a single hotplug event. A transient "device
// vanished between notification and open" condition is swallowed (nil
// error); any other OS error is returned for the caller to treat as
// fatal.
func (in *Integrator) HandleEvent(ev Event) error {
	switch ev.Action {
	case ActionBind:
		return in.bind(ev.Device)
	case ActionUnbind:
		return in.unbind(ev.Device.Name)
	default:
		return nil
	}
}

func (in *Integrator) bind(dev Device) error {
	if dev.DevPath == "" {
		return nil
	}
	ch, err := chip.Open(dev.DevPath)
	if err != nil {
		if isTransientDeviceGone(err) {
			in.log.WithField("device", dev.Name).Debug("hotplug: device vanished before open, ignoring")
			return nil
		}
		return errors.Wrapf(err, "hotplug: opening %s", dev.DevPath)
	}
	ch.SysfsPath = dev.SysfsPath

	b := in.alloc.Allocate(ch.NGpio())
	if err := in.mounter.BindChip(ch, b); err != nil {
		ch.Close()
		in.alloc.Free(b)
		return errors.Wrapf(err, "hotplug: mounting %s", dev.Name)
	}

	in.mu.Lock()
	in.chips[ch.Name] = &boundChip{chip: ch, base: b}
	in.mu.Unlock()

	in.log.WithFields(logrus.Fields{"chip": ch.Name, "base": b, "ngpio": ch.NGpio()}).Info("hotplug: chip bound")
	return nil
}

func (in *Integrator) unbind(name string) error {
	in.mu.Lock()
	bc, ok := in.chips[name]
	if ok {
		delete(in.chips, name)
	}
	in.mu.Unlock()
	if !ok {
		return nil
	}

	if err := in.mounter.UnbindChip(name); err != nil {
		return errors.Wrapf(err, "hotplug: unmounting %s", name)
	}
	ch := bc.chip
	ch.Close()
	in.alloc.Free(bc.base)

	in.log.WithField("chip", name).Info("hotplug: chip unbound")
	return nil
}

// Run consumes src.Events() until that channel is closed, applying each
// to HandleEvent. A fatal (non-transient)
// error is logged with a cause chain and terminates the process, per
// spec §4.6 and §7's fatal-hotplug error kind.
func (in *Integrator) Run(src Source) {
	for ev := range src.Events() {
		if err := in.HandleEvent(ev); err != nil {
			in.log.Errorf("hotplug: fatal error: %+v", err)
			os.Exit(1)
		}
	}
}

func isTransientDeviceGone(err error) bool {
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ENODEV) ||
		errors.Is(err, os.ErrNotExist)
}
