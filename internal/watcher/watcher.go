// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
// Copyright © 2026 The gpiosysfsd Authors.

// Package watcher implements the Event Watcher (spec §4.4): a
// dedicated background worker multiplexing edge-event file descriptors
// for every currently exported line, interruptible mid-wait via the
// self-pipe idiom. It is generalized from the teacher's watcher.go,
// which multiplexes a fixed fd set supplied once at construction, into
// a mutable watched set protected by a mutex, matching the
// watch_gpio/unwatch_gpio/stop mutation protocol spec §4.4 defines.
package watcher

import (
	"sync"

	"github.com/gpio-tools/gpiosysfsd/internal/uapi"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// pollTimeoutMillis is the 60 s bound on the multiplexing wait (spec
// §4.4 step 2), so the watcher periodically wakes even with an
// unchanged watched set and an idle bus.
const pollTimeoutMillis = 60_000

// selfPipeDrainSize bounds the self-pipe wakeup byte read per wakeup.
// Edge-event fds are drained one uapi.LineEvent at a time instead of
// into a fixed buffer.
const selfPipeDrainSize = 1024

// Notifier is delivered notify_poll when its fd becomes readable. The
// chip/line domain's `value` attribute implements this via
// vfs.PollState.NotifyPoll. The watcher holds only this interface, by
// fd key, never an owning reference into the node tree, per the
// weak-reference design note.
type Notifier interface {
	NotifyPoll()
}

// Watcher multiplexes edge-event fds for every exported line.
type Watcher struct {
	log *logrus.Entry

	epfd     int
	selfPipe [2]int

	mu      sync.Mutex
	watched map[int]Notifier
	running bool

	doneCh chan struct{}
}

// New creates and starts a Watcher. Its loop runs in its own goroutine
// until Stop is called.
func New(log *logrus.Entry) (*Watcher, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		unix.Close(epfd)
		return nil, err
	}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, p[0],
		&unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(p[0])}); err != nil {
		unix.Close(epfd)
		unix.Close(p[0])
		unix.Close(p[1])
		return nil, err
	}

	w := &Watcher{
		log:      log,
		epfd:     epfd,
		selfPipe: p,
		watched:  make(map[int]Notifier),
		running:  true,
		doneCh:   make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch adds fd (keyed, weakly, to n) to the watched set and interrupts
// the current wait so the new fd takes effect before the next wakeup.
func (w *Watcher) Watch(fd int, n Notifier) error {
	w.mu.Lock()
	w.watched[fd] = n
	err := unix.EpollCtl(w.epfd, unix.EPOLL_CTL_ADD, fd,
		&unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)})
	w.mu.Unlock()
	if err != nil {
		return err
	}
	w.wake()
	return nil
}

// Unwatch removes fd from the watched set. The caller must not close fd
// until this returns, and must guarantee no further use of n by the
// watcher is possible once it does.
func (w *Watcher) Unwatch(fd int) {
	w.mu.Lock()
	_, ok := w.watched[fd]
	delete(w.watched, fd)
	w.mu.Unlock()
	if ok {
		unix.EpollCtl(w.epfd, unix.EPOLL_CTL_DEL, fd, nil)
		w.wake()
	}
}

// Stop signals the loop to exit and blocks until it has. Safe to call
// once; the watcher is unusable afterwards.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	w.wake()
	<-w.doneCh
	unix.Close(w.selfPipe[0])
	unix.Close(w.selfPipe[1])
}

func (w *Watcher) wake() {
	unix.Write(w.selfPipe[1], []byte{0})
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	events := make([]unix.EpollEvent, 32)
	selfPipeBuf := make([]byte, selfPipeDrainSize)
	for {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()
		if !running {
			unix.Close(w.epfd)
			return
		}

		n, err := unix.EpollWait(w.epfd, events, pollTimeoutMillis)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			w.log.WithError(err).Error("event watcher: epoll wait failed")
			continue
		}
		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == w.selfPipe[0] {
				unix.Read(fd, selfPipeBuf)
				continue
			}
			w.mu.Lock()
			notifier, ok := w.watched[fd]
			w.mu.Unlock()
			if !ok {
				continue
			}
			// The fd may already have been closed by a concurrent
			// unexport, or the single queued event may already have
			// been drained by a previous wakeup; ignore read errors,
			// per spec §4.4 step 3.
			uapi.ReadLineEvent(uintptr(fd))
			notifier.NotifyPoll()
		}
	}
}
