package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/DKrepsky/sa430/internal/discovery"
)

func TestScanWithPrintsFixturePorts(t *testing.T) {
	var buf bytes.Buffer
	if err := scanWith(discovery.NewFakeScanner(), &buf); err != nil {
		t.Fatalf("scanWith: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "/dev/ttyUSB1") || !strings.Contains(out, "08FF41E50F8B3A34") {
		t.Errorf("output missing expected port row:\n%s", out)
	}
	if strings.Count(out, "---------------|------------------|--------") != 2 {
		t.Errorf("expected header and trailing separator lines, got:\n%s", out)
	}
}

func TestScanWithPropagatesScanError(t *testing.T) {
	wantErr := errors.New("usb enumeration failed")
	scanner := &discovery.FakeScanner{Err: wantErr}

	var buf bytes.Buffer
	err := scanWith(scanner, &buf)
	if err == nil || !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapping %v", err, wantErr)
	}
}

func TestDefaultScannerReturnsNoBackendError(t *testing.T) {
	_, err := defaultScanner().Scan()
	if !errors.Is(err, errNoScannerBackend) {
		t.Errorf("err = %v, want %v", err, errNoScannerBackend)
	}
}
