// SPDX-License-Identifier: MIT
//
// Copyright © 2026 The gpiosysfsd Authors.

package hotplug

import (
	"fmt"

	"github.com/pilebones/go-udev/netlink"
	"github.com/sirupsen/logrus"
)

// UdevSource is a Source backed by a live kernel uevent netlink socket,
// generalized from the teacher's mockup/udev.go one-shot matcher (which
// connects, matches a handful of expected mockup chips and stops) into
// a long-lived subscription filtered to the gpio subsystem, converting
// each netlink.UEvent into a hotplug.Event.
type UdevSource struct {
	conn   *netlink.UEventConn
	quit   chan struct{}
	events chan Event
	log    *logrus.Entry
}

// NewUdevSource connects to the kernel uevent netlink multicast group
// and begins filtering for gpio-subsystem events. Close must be called
// to release the underlying socket and goroutines.
func NewUdevSource(log *logrus.Entry) (*UdevSource, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, fmt.Errorf("hotplug: connecting to udev netlink: %w", err)
	}

	matcher := &netlink.RuleDefinition{
		Env: map[string]string{"SUBSYSTEM": "gpio"},
	}

	ueventCh := make(chan netlink.UEvent)
	errCh := make(chan error)
	quit := conn.Monitor(ueventCh, errCh, matcher)

	s := &UdevSource{
		conn:   conn,
		quit:   quit,
		events: make(chan Event),
		log:    log,
	}
	go s.translate(ueventCh, errCh)
	return s, nil
}

func (s *UdevSource) translate(ueventCh chan netlink.UEvent, errCh chan error) {
	defer close(s.events)
	for {
		select {
		case uev, ok := <-ueventCh:
			if !ok {
				return
			}
			ev, ok := fromUEvent(uev)
			if !ok {
				continue
			}
			s.events <- ev
		case err := <-errCh:
			s.log.WithError(err).Warn("hotplug: udev monitor error")
		case <-s.quit:
			return
		}
	}
}

// fromUEvent maps a raw kernel uevent's Action and Env into a hotplug
// Event. Only "add"/"online" and "remove"/"offline" are mapped; the
// second return is false for every other action, including "change"
// and the driver-level "bind"/"unbind" actions, which are dropped.
func fromUEvent(uev netlink.UEvent) (Event, bool) {
	var action Action
	switch uev.Action {
	case "add", "online":
		action = ActionBind
	case "remove", "offline":
		action = ActionUnbind
	default:
		return Event{}, false
	}

	devPath := uev.Env["DEVNAME"]
	name := trimDevPrefix(devPath)

	return Event{
		Action: action,
		Device: Device{
			Name:      name,
			DevPath:   devPath,
			SysfsPath: "/sys" + uev.Env["DEVPATH"],
		},
	}, true
}

func trimDevPrefix(name string) string {
	const prefix = "/dev/"
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		return name[len(prefix):]
	}
	return name
}

// Events returns the channel of translated hotplug events.
func (s *UdevSource) Events() <-chan Event {
	return s.events
}

// Close stops the udev monitor and closes the netlink socket, the way
// the teacher's udevMonitor.Close does.
func (s *UdevSource) Close() error {
	s.quit <- struct{}{}
	return s.conn.Close()
}
