package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/DKrepsky/sa430/internal/discovery"
	"github.com/DKrepsky/sa430/internal/metrics"
)

// errNoScannerBackend is returned when no platform-specific Scanner
// implementation is available. Concrete enumeration is OS-specific and not
// implemented here.
var errNoScannerBackend = errors.New("no scanner backend available for this platform")

// runScan lists SA430 devices currently attached to the host.
func runScan(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.Parse(args)

	return scanWith(defaultScanner(), w)
}

func scanWith(scanner discovery.Scanner, w io.Writer) error {
	ports, err := scanner.Scan()
	if err != nil {
		return fmt.Errorf("scanning for devices: %w", err)
	}
	metrics.DiscoveredDevices.Set(float64(len(ports)))

	fmt.Fprintln(w, "port           | serial number    | version")
	fmt.Fprintln(w, "---------------|------------------|--------")
	for _, p := range ports {
		fmt.Fprintf(w, "%-14s | %-16s | %-4s\n", p.Name, p.SerialNumber, p.FirmwareVersion)
	}
	fmt.Fprintln(w, "---------------|------------------|--------")
	return nil
}

// unavailableScanner always fails with errNoScannerBackend. It stands in for
// the OS-specific Scanner backend this repo does not implement.
type unavailableScanner struct{}

func (unavailableScanner) Scan() ([]discovery.Port, error) {
	return nil, errNoScannerBackend
}

func defaultScanner() discovery.Scanner {
	return unavailableScanner{}
}
