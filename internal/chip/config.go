// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The gpiosysfsd Authors.

package chip

import "github.com/gpio-tools/gpiosysfsd/internal/uapi"

// Direction is the line's direction attribute (spec §4.3).
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// ParseDirection parses the textual form written to a line's
// `direction` attribute.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "in":
		return DirectionIn, true
	case "out":
		return DirectionOut, true
	default:
		return DirectionIn, false
	}
}

// Edge is the line's edge-detection attribute (spec §4.3).
type Edge int

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ParseEdge parses the textual form written to a line's `edge`
// attribute.
func ParseEdge(s string) (Edge, bool) {
	switch s {
	case "none":
		return EdgeNone, true
	case "rising":
		return EdgeRising, true
	case "falling":
		return EdgeFalling, true
	case "both":
		return EdgeBoth, true
	default:
		return EdgeNone, false
	}
}

// Config is the atomic (direction, edge, active_low) tuple applied to a
// requested line by Reconfigure. Spec §4.3 requires these three fields
// move together: a partial apply is never observable.
type Config struct {
	Direction Direction
	Edge      Edge
	ActiveLow bool
}

// flags renders the Config as the v2 uAPI line flags.
func (c Config) flags() uapi.LineFlagV2 {
	var f uapi.LineFlagV2
	if c.ActiveLow {
		f |= uapi.LineFlagV2ActiveLow
	}
	switch c.Direction {
	case DirectionOut:
		f |= uapi.LineFlagV2Output
	default:
		f |= uapi.LineFlagV2Input
		switch c.Edge {
		case EdgeRising:
			f |= uapi.LineFlagV2EdgeRising
		case EdgeFalling:
			f |= uapi.LineFlagV2EdgeFalling
		case EdgeBoth:
			f |= uapi.LineFlagV2EdgeBoth
		}
	}
	return f
}

// configFromInfo derives a Config mirroring a line's current reported
// state, used to request a line "as-is" on export per spec §4.2.
func configFromInfo(li uapi.LineInfoV2) Config {
	c := Config{ActiveLow: li.Flags.IsActiveLow()}
	if li.Flags.IsOutput() {
		c.Direction = DirectionOut
		return c
	}
	c.Direction = DirectionIn
	switch {
	case li.Flags.IsBothEdges():
		c.Edge = EdgeBoth
	case li.Flags.IsRisingEdge():
		c.Edge = EdgeRising
	case li.Flags.IsFallingEdge():
		c.Edge = EdgeFalling
	default:
		c.Edge = EdgeNone
	}
	return c
}
