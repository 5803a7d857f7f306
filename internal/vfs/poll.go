// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import "sync"

// Readiness is the poll readiness mask for an attribute, expressed as
// booleans rather than raw POLL* bits so this package stays free of any
// particular kernel binding's constants. Classical sysfs GPIO never
// blocks on ordinary read/write of an attribute, so Readable and
// Writable are always true; Priority carries the POLLPRI-equivalent
// edge-event signal.
type Readiness struct {
	Readable bool
	Writable bool
	Priority bool
}

// Waiter is armed by a poll call and woken by a later NotifyPoll. The
// FUSE adapter supplies the concrete implementation that turns Wake
// into a kernel poll notification; this package never depends on it.
type Waiter interface {
	Wake()
}

// PollState is the pending-event/armed-handle pair backing the `value`
// attribute's poll support (spec §4.4). Only one Waiter is armed at a
// time: a client must re-poll to rearm after being woken, matching the
// "clear the stored handle" step of notify_poll.
type PollState struct {
	mu      sync.Mutex
	pending bool
	waiter  Waiter
}

// Poll consumes and clears the pending-event flag, records w as the
// armed waiter if none is already recorded, and returns the resulting
// readiness.
func (p *PollState) Poll(w Waiter) Readiness {
	p.mu.Lock()
	defer p.mu.Unlock()
	pending := p.pending
	p.pending = false
	if p.waiter == nil {
		p.waiter = w
	}
	return Readiness{Readable: true, Writable: true, Priority: pending}
}

// NotifyPoll sets the pending-event flag and wakes the currently armed
// waiter, if any, clearing it so a subsequent poll must rearm.
func (p *PollState) NotifyPoll() {
	p.mu.Lock()
	p.pending = true
	w := p.waiter
	p.waiter = nil
	p.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}
