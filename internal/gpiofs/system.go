// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

// Package gpiofs is the composition root tying internal/vfs,
// internal/chip, internal/base and internal/watcher together into the
// concrete /sys/class/gpio tree: chip bind/unbind (driven by
// internal/hotplug through the Mounter interface it defines) and line
// export/unexport (driven by writes to the tree's own export/unexport
// attributes). None of the four packages it composes know about each
// other; this is the only package that does, the way the teacher's
// gpiod.Chip composes internal/uapi without uapi ever importing gpiod
// back.
package gpiofs

import (
	"fmt"
	"sync"

	"github.com/gpio-tools/gpiosysfsd/internal/base"
	"github.com/gpio-tools/gpiosysfsd/internal/chip"
	"github.com/gpio-tools/gpiosysfsd/internal/vfs"
	"github.com/gpio-tools/gpiosysfsd/internal/watcher"
	"github.com/sirupsen/logrus"
)

// chipEntry is a bound chip: its open handle, assigned base, and the
// directory name it was inserted under.
type chipEntry struct {
	chip    *chip.Chip
	base    int
	dirName string
}

// lineEntry is an exported line: its requested handle, its PollState
// (so unexport can Unwatch the right fd) and the chip it belongs to.
type lineEntry struct {
	chipName string
	line     *chip.Line
	poll     *vfs.PollState
}

// System owns the tree and the live GPIO state backing it.
type System struct {
	tree     *vfs.Tree
	alloc    *base.Allocator
	watcher  *watcher.Watcher
	consumer string
	log      *logrus.Entry

	mu    sync.Mutex
	chips map[string]*chipEntry
	lines map[int]*lineEntry
}

// New returns a System with an empty tree already populated with the
// root `export`/`unexport` attributes (spec §3's tree invariant: root
// always contains exactly those two plus whatever chips/lines are
// currently bound/exported).
func New(alloc *base.Allocator, w *watcher.Watcher, consumer string, log *logrus.Entry) *System {
	s := &System{
		alloc:    alloc,
		watcher:  w,
		consumer: consumer,
		log:      log,
		chips:    make(map[string]*chipEntry),
		lines:    make(map[int]*lineEntry),
	}
	s.tree = vfs.NewTree()
	root := s.tree.Root()
	root.Insert("export", vfs.NewExportControl(vfs.ModeWriteOnly, s.export))
	root.Insert("unexport", vfs.NewExportControl(vfs.ModeWriteOnly, s.unexport))
	return s
}

// Tree returns the system's node tree, for the FUSE adapter to mount.
func (s *System) Tree() *vfs.Tree {
	return s.tree
}

// BindChip implements hotplug.Mounter: inserts a gpiochip<base>
// directory for ch at base, per spec §4.6's bind action.
func (s *System) BindChip(ch *chip.Chip, base int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirName := fmt.Sprintf("gpiochip%d", base)
	dir := s.newChipDir(ch, base)
	s.tree.Root().Insert(dirName, dir)
	s.chips[ch.Name] = &chipEntry{chip: ch, base: base, dirName: dirName}
	return nil
}

// UnbindChip implements hotplug.Mounter: cascades removal of every
// exported line belonging to name, then removes its gpiochip<base>
// directory, per spec §4.6's unbind action and §3's cascade-removal
// ownership rule.
func (s *System) UnbindChip(name string) error {
	s.mu.Lock()
	ce, ok := s.chips[name]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.chips, name)

	var toRemove []int
	for n, le := range s.lines {
		if le.chipName == name {
			toRemove = append(toRemove, n)
		}
	}
	s.mu.Unlock()

	for _, n := range toRemove {
		if err := s.releaseLine(n); err != nil {
			s.log.WithError(err).WithField("gpio", n).Warn("gpiofs: releasing line during chip unbind")
		}
	}

	s.tree.Root().Remove(ce.dirName)
	return nil
}

// export is the export attribute's write handler (spec §4.2).
func (s *System) export(n int) error {
	s.mu.Lock()
	if _, exists := s.lines[n]; exists {
		s.mu.Unlock()
		return vfs.ErrInvalidArgument
	}
	ce, offset, ok := s.findChipLocked(n)
	s.mu.Unlock()
	if !ok {
		return vfs.ErrInvalidArgument
	}

	line, err := ce.chip.RequestLine(offset, s.consumer)
	if err != nil {
		return vfs.ErrInvalidArgument
	}

	dir, poll := s.newLineDir(ce.chip.Name, line)

	s.mu.Lock()
	s.lines[n] = &lineEntry{chipName: ce.chip.Name, line: line, poll: poll}
	s.mu.Unlock()

	if err := s.watcher.Watch(int(line.Fd()), poll); err != nil {
		s.log.WithError(err).WithField("gpio", n).Warn("gpiofs: watching exported line's edge fd")
	}

	s.tree.Root().Insert(fmt.Sprintf("gpio%d", n), dir)
	return nil
}

// unexport is the unexport attribute's write handler (spec §4.2).
func (s *System) unexport(n int) error {
	s.mu.Lock()
	_, exists := s.lines[n]
	s.mu.Unlock()
	if !exists {
		return vfs.ErrInvalidArgument
	}
	return s.releaseLine(n)
}

// releaseLine unwatches, releases and removes gpio<n>, in the order
// spec §5 requires: unwatch before release, release before the
// directory disappears from lookup.
func (s *System) releaseLine(n int) error {
	s.mu.Lock()
	le, ok := s.lines[n]
	if ok {
		delete(s.lines, n)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}

	s.watcher.Unwatch(int(le.line.Fd()))
	err := le.line.Close()
	s.tree.Root().Remove(fmt.Sprintf("gpio%d", n))
	return err
}

// findChipLocked locates the chip entry and within-chip offset for
// global line number n. Callers must hold s.mu.
func (s *System) findChipLocked(n int) (*chipEntry, int, bool) {
	for _, ce := range s.chips {
		if n >= ce.base && n < ce.base+ce.chip.NGpio() {
			return ce, n - ce.base, true
		}
	}
	return nil, 0, false
}
