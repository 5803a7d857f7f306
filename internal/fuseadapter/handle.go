// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package fuseadapter

import (
	"context"
	"syscall"

	"github.com/gpio-tools/gpiosysfsd/internal/vfs"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// attrHandle is the open file handle returned for every regular
// attribute, the way the sandbox example's sandboxFileHandle carries
// its node's read/write behavior rather than the parent fsNode doing
// it directly. Every read re-renders the attribute's live content, per
// vfs.Attr's contract; there is no per-handle buffering.
type attrHandle struct {
	attr   vfs.Attr
	waiter *inodeWaiter
}

var _ gofuse.FileReader = (*attrHandle)(nil)
var _ gofuse.FileWriter = (*attrHandle)(nil)
var _ gofuse.FileFlusher = (*attrHandle)(nil)

func (h *attrHandle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	content, err := h.attr.Read()
	if err != nil {
		return nil, vfs.Errno(err)
	}
	if off >= int64(len(content)) {
		return fuse.ReadResultData(nil), 0
	}
	end := int64(len(content))
	if off+int64(len(dest)) < end {
		end = off + int64(len(dest))
	}
	return fuse.ReadResultData([]byte(content[off:end])), 0
}

func (h *attrHandle) Write(ctx context.Context, data []byte, off int64) (uint32, syscall.Errno) {
	if err := h.attr.Write(string(data)); err != nil {
		return 0, vfs.Errno(err)
	}
	return uint32(len(data)), 0
}

// Flush is a no-op: every write already applies synchronously in
// attr.Write, so there is nothing buffered to flush.
func (h *attrHandle) Flush(ctx context.Context) syscall.Errno {
	return 0
}

// inodeWaiter adapts a FUSE Inode into a vfs.Waiter: waking it
// invalidates the kernel's cached content for the node so a blocked
// poll(2)/select(2) caller's next read observes the edge, the closest
// analogue this binding has to FUSE_NOTIFY_POLL without a grounded
// signature for it in the example pack.
type inodeWaiter struct {
	inode *gofuse.Inode
}

func (w *inodeWaiter) Wake() {
	w.inode.NotifyContent(0, 0)
}
