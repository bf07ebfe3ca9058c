// Command sa430ctl is a thin driver wrapper around the sa430 package: it
// exposes the Scanner/Watcher capability and device operations as a set of
// subcommands for scripting and manual bench use.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = runScan(os.Args[2:], os.Stdout)
	case "watch":
		err = runWatch(os.Args[2:], os.Stdout)
	case "info":
		err = runInfo(os.Args[2:], os.Stdout)
	case "blink":
		err = runBlink(os.Args[2:], os.Stdout)
	case "reboot":
		err = runReboot(os.Args[2:], os.Stdout)
	case "capture":
		err = runCapture(os.Args[2:], os.Stdout)
	case "serve":
		err = runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "sa430ctl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sa430ctl <scan|watch|info|blink|reboot|capture|serve> [flags]")
}
