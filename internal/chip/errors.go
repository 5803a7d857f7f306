// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The gpiosysfsd Authors.

package chip

import "errors"

var (
	// ErrClosed indicates the chip or line has already been closed.
	ErrClosed = errors.New("chip: already closed")

	// ErrInvalidOffset indicates a line offset is invalid.
	ErrInvalidOffset = errors.New("chip: invalid offset")

	// ErrPermissionDenied indicates the caller does not have the
	// required permissions for the operation, e.g. setting the value
	// of a line configured as an input.
	ErrPermissionDenied = errors.New("chip: permission denied")
)
