// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

// Package fuseadapter binds the internal/vfs node tree to the kernel via
// github.com/hanwen/go-fuse/v2, the way the artifact store's fuse.Mount
// wraps its own tree with a single InodeEmbedder type and lazily
// populates children from Lookup/Readdir rather than walking the whole
// tree up front. Every Node capability (Directory, Attr, Link) maps to
// exactly one fsNode method set; there is no per-node-kind Go type on
// this side of the boundary, matching the vfs package's own
// tagged-variant design.
package fuseadapter

import (
	"fmt"
	"os"
	"time"

	"github.com/gpio-tools/gpiosysfsd/internal/vfs"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/sirupsen/logrus"
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory the filesystem is mounted at. Created
	// if it does not already exist.
	Mountpoint string

	// AllowOther permits users other than the mount owner to access the
	// filesystem. Requires user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Log receives the mount notice at Info level. Individual
	// filesystem requests are not logged.
	Log *logrus.Entry
}

// Mount mounts tree at options.Mountpoint and returns the running FUSE
// server. The caller must call server.Unmount (or Wait, for a blocking
// mount loop) as the daemon's lifecycle requires.
func Mount(tree *vfs.Tree, options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("fuseadapter: mountpoint is required")
	}
	if options.Log == nil {
		options.Log = logrus.NewEntry(logrus.New())
	}
	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("fuseadapter: creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &fsNode{node: tree.Root(), log: options.Log}

	entryTimeout := time.Duration(0)
	attrTimeout := time.Duration(0)

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout: &entryTimeout,
		AttrTimeout:  &attrTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "gpiosysfsd",
			Name:       "gpiosysfsd",
			AllowOther: options.AllowOther,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fuseadapter: mounting at %s: %w", options.Mountpoint, err)
	}

	options.Log.WithField("mountpoint", options.Mountpoint).Info("fuseadapter: mounted")
	return server, nil
}
