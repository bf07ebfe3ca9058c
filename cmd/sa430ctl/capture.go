package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/DKrepsky/sa430/pkg/sa430"
)

// runCapture configures the device's RF settings and prints one corrected
// sweep as frequency/power pairs.
func runCapture(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("capture", flag.ContinueOnError)
	port := fs.String("port", "", "serial port the device is attached to")
	startHz := fs.Float64("start", 433e6, "sweep start frequency in Hz")
	stopHz := fs.Float64("stop", 434e6, "sweep stop frequency in Hz")
	stepHz := fs.Float64("step", 1e5, "sweep step frequency in Hz")
	rbwHz := fs.Float64("rbw", 2e5, "resolution bandwidth in Hz")
	refLvl := fs.Int("reflvl", -35, "reference level in dBm")
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

	if _, err := dev.LoadCalibration(); err != nil {
		return fmt.Errorf("loading calibration: %w", err)
	}
	if _, err := dev.Configure(*startHz, *stopHz, *stepHz, *rbwHz, *refLvl); err != nil {
		return fmt.Errorf("configuring sweep: %w", err)
	}

	result, err := dev.Sweep()
	if err != nil {
		return fmt.Errorf("sweeping: %w", err)
	}

	for _, s := range result.Samples {
		fmt.Fprintf(w, "%.0f\t%.2f\n", s.FreqHz, s.PowerDb)
	}
	return nil
}
