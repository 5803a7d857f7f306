// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package vfs

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ueventCmds are the kernel uevent actions a chip's or line's uevent
// attribute accepts, per spec §3.
var ueventCmds = map[string]bool{
	"add": true, "remove": true, "change": true, "move": true,
	"online": true, "offline": true, "bind": true, "unbind": true,
}

// ueventKV matches a single trailing KEY=VAL token.
var ueventKV = regexp.MustCompile(`^[^\s=]+=\S*$`)

// ValidateUevent checks payload against the uevent attribute's grammar:
// "<cmd> <uuid>(  KEY=VAL)*" where cmd is one of the eight kernel
// actions and uuid is a canonical 8-4-4-4-12 hex UUID. It is the single
// place this validation happens, shared by the chip and line uevent
// attributes.
func ValidateUevent(payload string) error {
	fields := strings.Fields(payload)
	if len(fields) < 2 {
		return ErrInvalidArgument
	}
	if !ueventCmds[fields[0]] {
		return ErrInvalidArgument
	}
	// Restrict to the canonical 8-4-4-4-12 hyphenated form; uuid.Parse
	// also accepts braced/urn/no-hyphen variants that sysfs never emits.
	if len(fields[1]) != 36 {
		return ErrInvalidArgument
	}
	if _, err := uuid.Parse(fields[1]); err != nil {
		return ErrInvalidArgument
	}
	for _, kv := range fields[2:] {
		if !ueventKV.MatchString(kv) {
			return ErrInvalidArgument
		}
	}
	return nil
}
