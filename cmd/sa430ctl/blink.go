package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/DKrepsky/sa430/pkg/sa430"
)

var errMissingPort = errors.New("missing required -port flag")

// runBlink toggles the device's identification LED, useful for confirming
// which physical unit a -port flag refers to.
func runBlink(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("blink", flag.ContinueOnError)
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

	if err := dev.BlinkLed(); err != nil {
		return err
	}
	fmt.Fprintln(w, "blink requested")
	return nil
}
