// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The gpiosysfsd Authors.

package chip

import (
	"sync"

	"github.com/gpio-tools/gpiosysfsd/internal/uapi"
	"golang.org/x/sys/unix"
)

// Line represents a single requested line: the uAPI handle, plus the
// cached configuration tuple Reconfigure applies atomically.
type Line struct {
	fd       uintptr
	offset   int
	chipName string

	mu     sync.Mutex
	cfg    Config
	closed bool
}

// Fd returns the requested-line file descriptor, for the event watcher
// to add to its epoll set. The watcher must not use this after Close
// returns.
func (l *Line) Fd() uintptr {
	return l.fd
}

// Offset returns the line's offset within its chip.
func (l *Line) Offset() int {
	return l.offset
}

// Config returns the line's current cached configuration.
func (l *Line) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// Reconfigure applies cfg to the line as a single ioctl. On failure the
// cached Config is left exactly as it was (spec §7: attribute writes
// never partially apply).
func (l *Line) Reconfigure(cfg Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	lc := uapi.LineConfig{Flags: cfg.flags()}
	if err := uapi.SetLineConfigV2(l.fd, &lc); err != nil {
		return err
	}
	l.cfg = cfg
	return nil
}

// Value returns the line's current logical level: 1 if active, else 0.
func (l *Line) Value() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrClosed
	}
	lv := uapi.LineValues{Mask: 1}
	if err := uapi.GetLineValuesV2(l.fd, &lv); err != nil {
		return 0, err
	}
	return lv.Get(0), nil
}

// SetValue drives the line to the given logical level. Only valid for
// output lines.
func (l *Line) SetValue(value int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if l.cfg.Direction != DirectionOut {
		return ErrPermissionDenied
	}
	lv := uapi.LineValues{
		Mask: 1,
		Bits: uapi.NewLineBitmap(value),
	}
	return uapi.SetLineValuesV2(l.fd, lv)
}

// Close releases the requested-line file descriptor. The watcher must
// already have been unwatched before Close is called (spec §5: "the
// watcher must not access it after unwatch_gpio returns").
func (l *Line) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.closed = true
	return unix.Close(int(l.fd))
}
