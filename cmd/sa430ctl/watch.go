package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/DKrepsky/sa430/internal/discovery"
)

var errNoWatcherBackend = errors.New("no watcher backend available for this platform")

// printingHandler prints each connect/disconnect event to w, matching the
// scan table's column layout.
type printingHandler struct {
	w io.Writer
}

func (h printingHandler) Handle(event discovery.Event) {
	label := "Connected"
	if event.Kind == discovery.DeviceRemoved {
		label = "Disconnected"
	}
	fmt.Fprintf(h.w, "%s: %-14s | %-16s | %-4s\n", label, event.Port.Name, event.Port.SerialNumber, event.Port.FirmwareVersion)
}

// runWatch streams connect/disconnect events until the watcher's backend
// returns or the process is killed.
func runWatch(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.Parse(args)

	return watchWith(defaultWatcher(), w, nil)
}

func watchWith(watcher discovery.Watcher, w io.Writer, stop <-chan struct{}) error {
	watcher.Subscribe(printingHandler{w: w})
	return watcher.Start(stop)
}

// unavailableWatcher always fails with errNoWatcherBackend. It stands in
// for the OS-specific Watcher backend this repo does not implement.
type unavailableWatcher struct{}

func (unavailableWatcher) Subscribe(discovery.EventHandler) {}
func (unavailableWatcher) Start(<-chan struct{}) error      { return errNoWatcherBackend }

func defaultWatcher() discovery.Watcher {
	return unavailableWatcher{}
}
