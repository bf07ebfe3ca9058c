package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/DKrepsky/sa430/pkg/sa430"
)

// runInfo prints the connected device's identity and, if available, its
// loaded calibration details.
func runInfo(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
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

	id := dev.Identity()
	fmt.Fprintf(w, "IDN: %s\n", id.Idn)
	fmt.Fprintf(w, "Serial Number: %d\n", id.HwSerialNr)
	fmt.Fprintf(w, "Core Version: 0x%04X\n", id.CoreVersion)
	fmt.Fprintf(w, "Spectrum Version: 0x%04X\n", id.SpecVersion)

	cal, err := dev.LoadCalibration()
	if err != nil {
		fmt.Fprintf(w, "Calibration: unavailable (%v)\n", err)
		return nil
	}
	fmt.Fprintf(w, "Calibration Version: %d\n", cal.Data.FormatVersion)
	fmt.Fprintf(w, "Calibration Date: %s\n", cal.Data.CalDate)
	return nil
}
