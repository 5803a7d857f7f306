// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import "strings"

// attr is the RegularAttr variant. Its behavior is entirely supplied by
// the read/write closures passed to its constructors below, per the
// four flavors described in spec §3: ConstReadOnly, ReadWrite,
// ExportControl and UeventAttr all reduce to the same struct with
// different closures rather than four separate types.
type attr struct {
	*base
	read  func() (string, error)
	write func(string) error // nil means read-only
	poll  *PollState          // nil for every attribute except `value`
}

// NewConstReadOnly returns an attribute whose content never changes
// after creation. Reads render "<value>\n"; writes fail with
// ErrPermissionDenied.
func NewConstReadOnly(mode uint32, value string) Attr {
	rendered := value + "\n"
	return &attr{
		base: newBase(mode, attrSize),
		read: func() (string, error) { return rendered, nil },
	}
}

// NewReadWrite returns an attribute backed by live get/set closures.
// get is called fresh on every read (attributes such as `value` reflect
// live chip state, not a cached copy). set receives the write payload
// already trimmed of surrounding whitespace; a non-nil error from set
// is surfaced to the caller as-is, and the cached state (owned by the
// closures, not by this struct) is left untouched on failure, so writes
// are all-or-nothing as required by spec §7.
func NewReadWrite(mode uint32, get func() string, set func(string) error) Attr {
	return &attr{
		base: newBase(mode, attrSize),
		read: func() (string, error) { return get() + "\n", nil },
		write: func(payload string) error {
			return set(payload)
		},
	}
}

// NewValueAttr is NewReadWrite plus poll support: the returned Attr's
// Poll reports POLLPRI-equivalent readiness whenever the PollState has
// been notified since the last poll. The PollState is also returned so
// the caller (the chip/line domain) can wire it to the event watcher.
func NewValueAttr(mode uint32, get func() string, set func(string) error) (Attr, *PollState) {
	ps := &PollState{}
	a := &attr{
		base: newBase(mode, attrSize),
		read: func() (string, error) { return get() + "\n", nil },
		write: func(payload string) error {
			return set(payload)
		},
		poll: ps,
	}
	return a, ps
}

// NewExportControl returns a write-only attribute accepting a
// digits-only decimal line number, invoking onExport with the parsed
// value. A non-digit payload fails with ErrInvalidArgument before
// onExport is ever called.
func NewExportControl(mode uint32, onExport func(n int) error) Attr {
	return &attr{
		base: newBase(mode, attrSize),
		write: func(payload string) error {
			n, err := parseDecimal(payload)
			if err != nil {
				return err
			}
			return onExport(n)
		},
	}
}

// NewUeventAttr returns an attribute whose write payload is validated
// against the uevent pattern (spec §3) before being handed to set. get
// renders the attribute's current stored payload, which is empty by
// default since sysfs uevent files read back empty in practice.
func NewUeventAttr(mode uint32, get func() string, set func(string) error) Attr {
	return &attr{
		base: newBase(mode, attrSize),
		read: func() (string, error) { return get() + "\n", nil },
		write: func(payload string) error {
			if err := ValidateUevent(payload); err != nil {
				return err
			}
			return set(payload)
		},
	}
}

func (a *attr) Read() (string, error) {
	if a.read == nil {
		return "", nil
	}
	return a.read()
}

func (a *attr) Write(payload string) error {
	if a.write == nil {
		return ErrPermissionDenied
	}
	payload = strings.TrimSpace(payload)
	if err := a.write(payload); err != nil {
		return err
	}
	a.touch()
	return nil
}

func (a *attr) Poll(w Waiter) Readiness {
	if a.poll == nil {
		return Readiness{Readable: true, Writable: true}
	}
	return a.poll.Poll(w)
}

func parseDecimal(payload string) (int, error) {
	if payload == "" {
		return 0, ErrInvalidArgument
	}
	n := 0
	for _, c := range payload {
		if c < '0' || c > '9' {
			return 0, ErrInvalidArgument
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
