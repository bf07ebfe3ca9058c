package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/DKrepsky/sa430/pkg/sa430"
)

// runReboot sends HW_RESET to the device. The device's transport becomes
// unusable once the unit resets; the caller must reopen it afterward.
func runReboot(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("reboot", flag.ContinueOnError)
	port := fs.String("port", "", "serial port the device is attached to")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *port == "" {
		return errMissingPort
	}

	dev, err := sa430.Open(*port)
	if err != nil {
		return fmt.Errorf("opening %s: %w", *port, err)
	}
	defer dev.Close()

	if err := dev.Reboot(); err != nil {
		return err
	}
	fmt.Fprintln(w, "reboot requested")
	return nil
}
