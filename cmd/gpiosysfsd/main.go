// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

//go:build linux
// +build linux

// gpiosysfsd mounts a FUSE filesystem at a chosen mountpoint that
// behaves like the legacy /sys/class/gpio tree, backed by the modern
// GPIO character-device uAPI.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/gpio-tools/gpiosysfsd/internal/base"
	"github.com/gpio-tools/gpiosysfsd/internal/fuseadapter"
	"github.com/gpio-tools/gpiosysfsd/internal/gpiofs"
	"github.com/gpio-tools/gpiosysfsd/internal/hotplug"
	"github.com/gpio-tools/gpiosysfsd/internal/watcher"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gpiosysfsd <mountpoint>",
	Short: "gpiosysfsd emulates the legacy sysfs GPIO interface over FUSE",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	flags := rootCmd.Flags()
	flags.Bool("allow-other", false, "allow other users to access the mount")
	flags.String("consumer", "sysfs", "consumer label used when requesting lines")
	flags.Int("base", base.MinBase, "starting base for chip allocation")
	flags.IntP("loglevel", "v", int(logrus.InfoLevel), "log level, 0 (panic) to 6 (trace)")
	flags.Bool("foreground", false, "do not daemonize (daemonizing is not implemented; flag is accepted for CLI compatibility)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level int) *logrus.Entry {
	logrus.ErrorKey = "$error"
	logger := logrus.New()
	logger.SetLevel(logrus.Level(level))
	formatter := new(prefixed.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	formatter.SpacePadding = 20
	logger.SetFormatter(formatter)
	return logrus.NewEntry(logger).WithField("prefix", "gpiosysfsd")
}

func run(cmd *cobra.Command, args []string) error {
	mountpoint := args[0]
	flags := cmd.Flags()
	allowOther, _ := flags.GetBool("allow-other")
	consumer, _ := flags.GetString("consumer")
	startBase, _ := flags.GetInt("base")
	loglevel, _ := flags.GetInt("loglevel")

	log := newLogger(loglevel)

	alloc := base.NewFrom(startBase)
	w, err := watcher.New(log)
	if err != nil {
		return fmt.Errorf("starting event watcher: %w", err)
	}
	defer w.Stop()

	sys := gpiofs.New(alloc, w, consumer, log)
	integrator := hotplug.New(alloc, sys, log)

	for _, ev := range hotplug.Snapshot() {
		if err := integrator.HandleEvent(ev); err != nil {
			log.WithError(err).Warn("gpiosysfsd: startup snapshot bind failed")
		}
	}

	src, err := hotplug.NewUdevSource(log)
	if err != nil {
		return fmt.Errorf("starting udev hotplug source: %w", err)
	}
	go integrator.Run(src)
	defer src.Close()

	server, err := fuseadapter.Mount(sys.Tree(), fuseadapter.Options{
		Mountpoint: mountpoint,
		AllowOther: allowOther,
		Log:        log,
	})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("gpiosysfsd: shutting down")
	if err := server.Unmount(); err != nil {
		return err
	}
	return nil
}
