// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

//go:build linux
// +build linux

package watcher

import (
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/gpio-tools/gpiosysfsd/internal/uapi"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// edgeEventBytes is zeroed filler the size of a real uapi.LineEvent,
// the same size a requested-line fd always delivers in one read. Its
// content is irrelevant here; the watcher's drain step discards the
// decoded event and only uses the read to clear the fd's readiness.
func edgeEventBytes() []byte {
	return make([]byte, binary.Size(uapi.LineEvent{}))
}

type countingNotifier struct {
	notified chan struct{}
}

func newCountingNotifier() *countingNotifier {
	return &countingNotifier{notified: make(chan struct{}, 8)}
}

func (c *countingNotifier) NotifyPoll() {
	c.notified <- struct{}{}
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestWatchDeliversNotifyPollOnReadableFd(t *testing.T) {
	w, err := New(testLogger())
	require.NoError(t, err)
	defer w.Stop()

	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_CLOEXEC))
	defer unix.Close(p[1])

	n := newCountingNotifier()
	require.NoError(t, w.Watch(p[0], n))

	_, err = unix.Write(p[1], edgeEventBytes())
	require.NoError(t, err)

	select {
	case <-n.notified:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for NotifyPoll")
	}
}

func TestUnwatchStopsDelivery(t *testing.T) {
	w, err := New(testLogger())
	require.NoError(t, err)
	defer w.Stop()

	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_CLOEXEC))
	defer unix.Close(p[0])
	defer unix.Close(p[1])

	n := newCountingNotifier()
	require.NoError(t, w.Watch(p[0], n))
	w.Unwatch(p[0])

	_, err = unix.Write(p[1], edgeEventBytes())
	require.NoError(t, err)

	select {
	case <-n.notified:
		t.Fatal("unwatched fd should not be notified")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStopJoinsLoopAndClearsRunning(t *testing.T) {
	w, err := New(testLogger())
	require.NoError(t, err)
	w.Stop()
	assert.False(t, w.running)
}
