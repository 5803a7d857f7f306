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
	"github.com/sirupsen/logrus"
)

// fsNode is the single InodeEmbedder backing every entry in the tree:
// which optional Node*er interfaces actually fire depends on which of
// vfs.Directory, vfs.Attr or vfs.Link the wrapped node implements, not
// on the Go type of fsNode itself.
type fsNode struct {
	gofuse.Inode
	node vfs.Node
	log  *logrus.Entry
}

var _ gofuse.InodeEmbedder = (*fsNode)(nil)
var _ gofuse.NodeLookuper = (*fsNode)(nil)
var _ gofuse.NodeReaddirer = (*fsNode)(nil)
var _ gofuse.NodeGetattrer = (*fsNode)(nil)
var _ gofuse.NodeSetattrer = (*fsNode)(nil)
var _ gofuse.NodeOpener = (*fsNode)(nil)
var _ gofuse.NodeReadlinker = (*fsNode)(nil)
var _ gofuse.NodeMkdirer = (*fsNode)(nil)
var _ gofuse.NodeMknoder = (*fsNode)(nil)
var _ gofuse.NodeUnlinker = (*fsNode)(nil)
var _ gofuse.NodeRmdirer = (*fsNode)(nil)

func (n *fsNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	d, ok := n.node.(vfs.Directory)
	if !ok {
		return nil, syscall.ENOTDIR
	}
	child, ok := d.Lookup(name)
	if !ok {
		return nil, syscall.ENOENT
	}
	fillEntry(out, child.Stat())
	return n.newChild(ctx, child), 0
}

// Mkdir always fails permission-denied: the tree's directories are all
// synthesized from bound chips and exported lines, never created by a
// client.
func (n *fsNode) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	return nil, vfs.Errno(vfs.ErrPermissionDenied)
}

// Mknod always fails access-denied, matching classical sysfs (device
// nodes are never created through it).
func (n *fsNode) Mknod(ctx context.Context, name string, mode uint32, dev uint32, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	return nil, vfs.Errno(vfs.ErrAccessDenied)
}

// Unlink always fails permission-denied: attribute files disappear only
// through unexport/unbind, never through a client's unlink.
func (n *fsNode) Unlink(ctx context.Context, name string) syscall.Errno {
	return vfs.Errno(vfs.ErrPermissionDenied)
}

// Rmdir reports not-a-directory for chip/tree directories (sysfs is
// never removable that way) and permission-denied if name turns out to
// be a file, per the same rule unlink uses.
func (n *fsNode) Rmdir(ctx context.Context, name string) syscall.Errno {
	d, ok := n.node.(vfs.Directory)
	if !ok {
		return syscall.ENOTDIR
	}
	child, ok := d.Lookup(name)
	if !ok {
		return syscall.ENOENT
	}
	if _, ok := child.(vfs.Directory); ok {
		return vfs.Errno(vfs.ErrNotADirectory)
	}
	return vfs.Errno(vfs.ErrPermissionDenied)
}

func (n *fsNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	d, ok := n.node.(vfs.Directory)
	if !ok {
		return nil, syscall.ENOTDIR
	}
	entries := d.Children()
	out := make([]fuse.DirEntry, len(entries))
	for i, e := range entries {
		out[i] = fuse.DirEntry{Name: e.Name, Mode: e.Node.Stat().Mode}
	}
	return &sliceDirStream{entries: out}, 0
}

// sliceDirStream implements gofuse.DirStream over a fixed slice,
// the way the artifact store's mount.go backs Readdir with one.
type sliceDirStream struct {
	entries []fuse.DirEntry
	index   int
}

func (s *sliceDirStream) HasNext() bool {
	return s.index < len(s.entries)
}

func (s *sliceDirStream) Next() (fuse.DirEntry, syscall.Errno) {
	if s.index >= len(s.entries) {
		return fuse.DirEntry{}, syscall.EINVAL
	}
	e := s.entries[s.index]
	s.index++
	return e, 0
}

func (s *sliceDirStream) Close() {}

func (n *fsNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	fillAttr(&out.Attr, n.node.Stat())
	return 0
}

func (n *fsNode) Setattr(ctx context.Context, f gofuse.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	// truncate is a no-op: every attribute's rendered content is
	// regenerated fresh on each read, so there is nothing to resize.
	if mode, ok := in.GetMode(); ok {
		if err := n.node.Chmod(mode); err != nil {
			return vfs.Errno(err)
		}
	}
	if uid, ok := in.GetUID(); ok {
		gid := n.node.Stat().Gid
		if g, ok := in.GetGID(); ok {
			gid = g
		}
		if err := n.node.Chown(uid, gid); err != nil {
			return vfs.Errno(err)
		}
	} else if gid, ok := in.GetGID(); ok {
		if err := n.node.Chown(n.node.Stat().Uid, gid); err != nil {
			return vfs.Errno(err)
		}
	}
	fillAttr(&out.Attr, n.node.Stat())
	return 0
}

// Open returns a fileHandle for a regular attribute. Directories and
// symlinks are never opened this way; the kernel uses Lookup/Readdir
// and Readlink for those instead.
func (n *fsNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	a, ok := n.node.(vfs.Attr)
	if !ok {
		return nil, 0, syscall.EISDIR
	}
	// Arm the waiter immediately: this binding has no grounded
	// FUSE_POLL signature to call Poll from, so a held-open `value`
	// attribute is armed once at Open rather than per poll(2) call.
	waiter := &inodeWaiter{inode: &n.Inode}
	a.Poll(waiter)
	return &attrHandle{attr: a, waiter: waiter}, fuse.FOPEN_NONSEEKABLE, 0
}

func (n *fsNode) Readlink(ctx context.Context) ([]byte, syscall.Errno) {
	l, ok := n.node.(vfs.Link)
	if !ok {
		return nil, vfs.Errno(vfs.ErrPermissionDenied)
	}
	target, err := l.Readlink()
	if err != nil {
		return nil, vfs.Errno(err)
	}
	return []byte(target), 0
}

// newChild wraps child in a fresh fsNode and attaches it under n via
// NewInode, mirroring the kernel-facing inode for child.
func (n *fsNode) newChild(ctx context.Context, child vfs.Node) *gofuse.Inode {
	return n.NewInode(ctx, &fsNode{node: child, log: n.log}, gofuse.StableAttr{Mode: modeFor(child)})
}

// modeFor reports the S_IFxxx bits the kernel needs at inode-creation
// time, independent of the full mode stat.Mode already carries (which
// Getattr reports in full, permission bits included).
func modeFor(n vfs.Node) uint32 {
	switch n.(type) {
	case vfs.Directory:
		return syscall.S_IFDIR
	case vfs.Link:
		return syscall.S_IFLNK
	default:
		return syscall.S_IFREG
	}
}

func fillEntry(out *fuse.EntryOut, st vfs.StatInfo) {
	fillAttr(&out.Attr, st)
}

func fillAttr(out *fuse.Attr, st vfs.StatInfo) {
	out.Mode = st.Mode
	out.Nlink = st.Nlink
	out.Size = st.Size
	out.Uid = st.Uid
	out.Gid = st.Gid
	out.Atime = uint64(st.Atime.Unix())
	out.Mtime = uint64(st.Mtime.Unix())
	out.Ctime = uint64(st.Ctime.Unix())
}
