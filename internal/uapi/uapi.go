// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The gpiosysfsd Authors.

//go:build linux
// +build linux

// Package uapi provides the Linux GPIO character-device uAPI (v2 ABI)
// definitions that the chip/line domain drives directly via ioctl.
//
// Only the v2 ABI is implemented: the proxy targets kernels new enough
// to expose GPIO_V2_GET_LINEINFO_IOCTL and friends, so there is no need
// to carry the v1 handle/event-request fallback the kernel still
// accepts for older callers.
package uapi

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Size of name and consumer strings embedded in uAPI structs.
const nameSize = 32

// LinesMax is the maximum number of lines that can be requested in a
// single LineRequest.
const LinesMax int = 64

type ioctl uintptr

var (
	getChipInfoIoctl     ioctl
	getLineInfoV2Ioctl   ioctl
	getLineIoctl         ioctl
	setLineConfigV2Ioctl ioctl
	getLineValuesV2Ioctl ioctl
	setLineValuesV2Ioctl ioctl
)

func init() {
	// ioctl numbers are derived from struct sizes, which are only
	// available at runtime via unsafe.Sizeof.
	var ci ChipInfo
	getChipInfoIoctl = ior(0xB4, 0x01, unsafe.Sizeof(ci))

	var liv2 LineInfoV2
	getLineInfoV2Ioctl = iorw(0xB4, 0x05, unsafe.Sizeof(liv2))

	var lr LineRequest
	getLineIoctl = iorw(0xB4, 0x07, unsafe.Sizeof(lr))

	var lc LineConfig
	setLineConfigV2Ioctl = iorw(0xB4, 0x0D, unsafe.Sizeof(lc))

	var lv LineValues
	getLineValuesV2Ioctl = iorw(0xB4, 0x0E, unsafe.Sizeof(lv))
	setLineValuesV2Ioctl = iorw(0xB4, 0x0F, unsafe.Sizeof(lv))
}

// GetChipInfo returns the ChipInfo for the GPIO character device.
//
// fd is an open GPIO character device.
func GetChipInfo(fd uintptr) (ChipInfo, error) {
	var ci ChipInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(getChipInfoIoctl), uintptr(unsafe.Pointer(&ci)))
	if errno != 0 {
		return ChipInfo{}, errno
	}
	return ci, nil
}

// GetLineInfoV2 returns the LineInfoV2 for one line from the GPIO
// character device. offset is zero based.
func GetLineInfoV2(fd uintptr, offset int) (LineInfoV2, error) {
	li := LineInfoV2{Offset: uint32(offset)}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(getLineInfoV2Ioctl), uintptr(unsafe.Pointer(&li)))
	if errno != 0 {
		return LineInfoV2{}, errno
	}
	return li, nil
}

// GetLine requests a set of lines from the GPIO character device.
//
// The lines must not already be requested and must all belong to fd's
// chip. If successful, request.Fd holds the fd for the requested lines.
func GetLine(fd uintptr, request *LineRequest) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(getLineIoctl), uintptr(unsafe.Pointer(request)))
	if errno != 0 {
		return errno
	}
	return nil
}

// GetLineValuesV2 returns the values of a set of requested lines.
//
// fd is a requested-line fd, as returned by GetLine.
func GetLineValuesV2(fd uintptr, values *LineValues) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(getLineValuesV2Ioctl), uintptr(unsafe.Pointer(values)))
	if errno != 0 {
		return errno
	}
	return nil
}

// SetLineValuesV2 sets the values of a set of requested lines.
//
// fd is a requested-line fd, as returned by GetLine.
func SetLineValuesV2(fd uintptr, values LineValues) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(setLineValuesV2Ioctl), uintptr(unsafe.Pointer(&values)))
	if errno != 0 {
		return errno
	}
	return nil
}

// SetLineConfigV2 reconfigures an existing line request. The config
// flags and attributes are applied to all lines in the request.
func SetLineConfigV2(fd uintptr, config *LineConfig) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(setLineConfigV2Ioctl), uintptr(unsafe.Pointer(config)))
	if errno != 0 {
		return errno
	}
	return nil
}

// BytesToString converts a nul-terminated byte array, as returned by
// GetChipInfo and GetLineInfoV2, into a string.
func BytesToString(a []byte) string {
	if n := bytes.IndexByte(a, 0); n != -1 {
		return string(a[:n])
	}
	return string(a)
}

type fdReader int

func (fd fdReader) Read(b []byte) (int, error) {
	return unix.Read(int(fd), b)
}

// ReadLineEvent reads a single edge event from a requested-line fd.
//
// This is blocking and should only be called when the fd is known to
// be readable.
func ReadLineEvent(fd uintptr) (LineEvent, error) {
	var le LineEvent
	err := binary.Read(fdReader(fd), nativeEndian, &le)
	return le, err
}

// ChipInfo contains the details of a GPIO chip.
type ChipInfo struct {
	// Name is the system name of the device, e.g. "gpiochip0".
	Name [nameSize]byte

	// Label is an identifying label added by the device driver.
	Label [nameSize]byte

	// Lines is the number of lines supported by this chip.
	Lines uint32
}
