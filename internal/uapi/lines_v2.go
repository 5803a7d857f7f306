// SPDX-License-Identifier: MIT
//
// Copyright © 2020 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The gpiosysfsd Authors.

//go:build linux
// +build linux

package uapi

import (
	"time"
)

const (
	lineConfigPadSize  int = 5
	lineRequestPadSize int = 5
	lineEventPadSize   int = 6
	lineInfoV2PadSize  int = 4
)

// LineInfoV2 contains the details of a single line of a GPIO chip.
type LineInfoV2 struct {
	// Name is the system name for this line.
	Name [nameSize]byte

	// Consumer identifies the owner of the request, if requested.
	Consumer [nameSize]byte

	// Offset is the offset of the line within the chip.
	Offset uint32

	NumAttrs uint32

	Flags LineFlagV2

	Attrs [10]LineAttribute

	Padding [lineInfoV2PadSize]uint32
}

// LineFlagV2 are the flags describing a line's current configuration.
type LineFlagV2 uint64

const (
	// LineFlagV2Used indicates the line is already in use, either by
	// this process, another process, or the kernel itself. The line
	// cannot be requested until this flag is clear.
	LineFlagV2Used LineFlagV2 = 1 << iota

	// LineFlagV2ActiveLow indicates the line is active low.
	LineFlagV2ActiveLow

	// LineFlagV2Input indicates the line direction is input.
	LineFlagV2Input

	// LineFlagV2Output indicates the line direction is output.
	LineFlagV2Output

	// LineFlagV2EdgeRising indicates edge detection is enabled for
	// rising edges.
	LineFlagV2EdgeRising

	// LineFlagV2EdgeFalling indicates edge detection is enabled for
	// falling edges.
	LineFlagV2EdgeFalling

	// LineFlagV2OpenDrain indicates the line drive is open drain.
	LineFlagV2OpenDrain

	// LineFlagV2OpenSource indicates the line drive is open source.
	LineFlagV2OpenSource

	// LineFlagV2BiasPullUp indicates the line bias is pull-up.
	LineFlagV2BiasPullUp

	// LineFlagV2BiasPullDown indicates the line bias is pull-down.
	LineFlagV2BiasPullDown

	// LineFlagV2BiasDisabled indicates the line bias is disabled.
	LineFlagV2BiasDisabled

	// LineFlagV2EventClockRealtime indicates CLOCK_REALTIME is the
	// source for event timestamps.
	LineFlagV2EventClockRealtime

	// LineFlagV2DirectionMask masks all direction flags.
	LineFlagV2DirectionMask = LineFlagV2Input | LineFlagV2Output

	// LineFlagV2EdgeMask masks all edge flags.
	LineFlagV2EdgeMask = LineFlagV2EdgeRising | LineFlagV2EdgeFalling

	// LineFlagV2EdgeBoth selects edge detection on both edges.
	LineFlagV2EdgeBoth = LineFlagV2EdgeMask

	// LineFlagV2DriveMask masks all drive flags.
	LineFlagV2DriveMask = LineFlagV2OpenDrain | LineFlagV2OpenSource

	// LineFlagV2BiasMask masks all bias flags.
	LineFlagV2BiasMask = LineFlagV2BiasDisabled | LineFlagV2BiasPullUp | LineFlagV2BiasPullDown
)

// IsUsed returns true if the line is not available to be requested.
func (f LineFlagV2) IsUsed() bool { return f&LineFlagV2Used != 0 }

// IsActiveLow returns true if the line is active low.
func (f LineFlagV2) IsActiveLow() bool { return f&LineFlagV2ActiveLow != 0 }

// IsInput returns true if the line is an input.
func (f LineFlagV2) IsInput() bool { return f&LineFlagV2Input != 0 }

// IsOutput returns true if the line is an output.
func (f LineFlagV2) IsOutput() bool { return f&LineFlagV2Output != 0 }

// IsOpenDrain returns true if the line drive is open drain.
func (f LineFlagV2) IsOpenDrain() bool { return f&LineFlagV2OpenDrain != 0 }

// IsOpenSource returns true if the line drive is open source.
func (f LineFlagV2) IsOpenSource() bool { return f&LineFlagV2OpenSource != 0 }

// IsRisingEdge returns true if rising-edge detection is enabled.
func (f LineFlagV2) IsRisingEdge() bool { return f&LineFlagV2EdgeRising != 0 }

// IsFallingEdge returns true if falling-edge detection is enabled.
func (f LineFlagV2) IsFallingEdge() bool { return f&LineFlagV2EdgeFalling != 0 }

// IsBothEdges returns true if detection is enabled on both edges.
func (f LineFlagV2) IsBothEdges() bool { return f&LineFlagV2EdgeBoth == LineFlagV2EdgeBoth }

// IsBiasDisabled returns true if the line bias is disabled.
func (f LineFlagV2) IsBiasDisabled() bool { return f&LineFlagV2BiasDisabled != 0 }

// IsBiasPullUp returns true if the line bias is pull-up.
func (f LineFlagV2) IsBiasPullUp() bool { return f&LineFlagV2BiasPullUp != 0 }

// IsBiasPullDown returns true if the line bias is pull-down.
func (f LineFlagV2) IsBiasPullDown() bool { return f&LineFlagV2BiasPullDown != 0 }

// Encode creates a LineAttribute carrying this LineFlagV2.
func (f LineFlagV2) Encode() (la LineAttribute) {
	la.Encode64(LineAttributeIDFlags, uint64(f))
	return
}

// LineAttribute defines a configuration attribute for one or more lines.
type LineAttribute struct {
	ID LineAttributeID

	Padding [1]uint32

	Value [8]byte
}

// Encode32 populates the LineAttribute with id and a 32-bit value.
func (la *LineAttribute) Encode32(id LineAttributeID, value uint32) {
	la.ID = id
	nativeEndian.PutUint32(la.Value[:], value)
}

// Encode64 populates the LineAttribute with id and a 64-bit value.
func (la *LineAttribute) Encode64(id LineAttributeID, value uint64) {
	la.ID = id
	nativeEndian.PutUint64(la.Value[:], value)
}

// Value32 returns the 32-bit value from the LineAttribute.
func (la LineAttribute) Value32() uint32 { return nativeEndian.Uint32(la.Value[:]) }

// Value64 returns the 64-bit value from the LineAttribute.
func (la LineAttribute) Value64() uint64 { return nativeEndian.Uint64(la.Value[:]) }

// LineAttributeID identifies the type of a configuration attribute.
type LineAttributeID uint32

const (
	// LineAttributeIDFlags indicates the attribute carries LineFlagV2 flags.
	LineAttributeIDFlags LineAttributeID = iota + 1

	// LineAttributeIDOutputValues indicates the attribute carries output values.
	LineAttributeIDOutputValues

	// LineAttributeIDDebounce indicates the attribute carries a debounce period.
	LineAttributeIDDebounce
)

// DebouncePeriod specifies the time a line must be stable before a
// level transition is recognized.
type DebouncePeriod time.Duration

// Encode creates a LineAttribute carrying this DebouncePeriod.
func (d DebouncePeriod) Encode() (la LineAttribute) {
	la.Encode32(LineAttributeIDDebounce, uint32(d/1000))
	return
}

// LineConfigAttribute associates a configuration attribute with a
// subset of the lines in a LineRequest, identified by Mask.
type LineConfigAttribute struct {
	Attr LineAttribute
	Mask LineBitmap
}

// LineConfig contains the configuration applied to a set of requested
// lines, as a set of line attributes.
type LineConfig struct {
	Flags LineFlagV2

	NumAttrs uint32

	Padding [lineConfigPadSize]uint32

	Attrs [10]LineConfigAttribute
}

// AddAttribute appends an attribute to the configuration. Attributes
// beyond the tenth are silently dropped, matching the kernel struct's
// fixed-size array.
func (lc *LineConfig) AddAttribute(lca LineConfigAttribute) {
	if lc.NumAttrs < uint32(len(lc.Attrs)) {
		lc.Attrs[lc.NumAttrs] = lca
		lc.NumAttrs++
	}
}

// LineRequest is a request for control of a set of lines, which must
// all belong to the same chip.
type LineRequest struct {
	Offsets [LinesMax]uint32

	Consumer [nameSize]byte

	Config LineConfig

	Lines uint32

	EventBufferSize uint32

	Padding [lineRequestPadSize]uint32

	// Fd is set to the requested-line file handle on success.
	Fd int32
}

// LineBitmap is a bitmap containing one bit per line in a LineRequest.
type LineBitmap uint64

// NewLineBitmap creates a bitmap from an array of per-line bit values.
func NewLineBitmap(vv ...int) LineBitmap {
	var lb LineBitmap
	for i, v := range vv {
		lb = lb.Set(i, v)
	}
	return lb
}

// NewLineBitMask returns a mask of the low n bits.
func NewLineBitMask(n int) LineBitmap {
	if n >= LinesMax {
		return 0xffffffffffffffff
	}
	return (LineBitmap(1) << uint(n)) - 1
}

// Get returns the value of the nth bit.
func (lb LineBitmap) Get(n int) int {
	if lb&(LineBitmap(1)<<uint(n)) != 0 {
		return 1
	}
	return 0
}

// Set sets the value of the nth bit.
func (lb LineBitmap) Set(n, v int) LineBitmap {
	mask := LineBitmap(1) << uint(n)
	if v == 0 {
		return lb &^ mask
	}
	return lb | mask
}

// LineValues contains (or requests) the output values for a masked
// subset of the lines in a LineRequest.
type LineValues struct {
	Bits LineBitmap
	Mask LineBitmap
}

// Get returns the value of the nth bit.
func (lv LineValues) Get(n int) int {
	if lv.Bits&(LineBitmap(1)<<uint(n)) != 0 {
		return 1
	}
	return 0
}

// LineEventID indicates the type of edge detected.
type LineEventID uint32

const (
	// LineEventRisingEdge indicates an inactive-to-active transition.
	LineEventRisingEdge LineEventID = iota + 1

	// LineEventFallingEdge indicates an active-to-inactive transition.
	LineEventFallingEdge
)

// LineEvent contains the details of an edge event, as read from a
// requested-line fd.
type LineEvent struct {
	Timestamp uint64

	ID LineEventID

	Offset uint32

	Seqno uint32

	LineSeqno uint32

	Padding [lineEventPadSize]uint32
}
