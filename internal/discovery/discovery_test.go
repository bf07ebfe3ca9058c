package discovery

import (
	"errors"
	"testing"
)

func TestFakeScannerReturnsSeededPorts(t *testing.T) {
	s := NewFakeScanner()
	ports, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(ports) != 3 {
		t.Fatalf("got %d ports, want 3", len(ports))
	}
	if ports[0].Name != "/dev/ttyUSB1" || ports[0].SerialNumber != "08FF41E50F8B3A34" {
		t.Errorf("ports[0] = %+v, unexpected", ports[0])
	}
}

func TestFakeScannerReturnsConfiguredError(t *testing.T) {
	wantErr := errors.New("scan failed")
	s := &FakeScanner{Err: wantErr}

	_, err := s.Scan()
	if err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

type recordingHandler struct {
	events []Event
}

func (h *recordingHandler) Handle(event Event) {
	h.events = append(h.events, event)
}

func TestFakeWatcherReplaysEventsToSubscribers(t *testing.T) {
	w := &FakeWatcher{
		Events: []Event{
			{Kind: DeviceAdded, Port: Port{Name: "/dev/ttyUSB1"}},
			{Kind: DeviceRemoved, Port: Port{Name: "/dev/ttyUSB1"}},
		},
	}
	h1 := &recordingHandler{}
	h2 := &recordingHandler{}
	w.Subscribe(h1)
	w.Subscribe(h2)

	if err := w.Start(nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(h1.events) != 2 || len(h2.events) != 2 {
		t.Fatalf("h1 got %d events, h2 got %d, want 2 each", len(h1.events), len(h2.events))
	}
	if h1.events[0].Kind != DeviceAdded || h1.events[1].Kind != DeviceRemoved {
		t.Errorf("unexpected event order: %+v", h1.events)
	}
	if w.Started() != 1 {
		t.Errorf("Started() = %d, want 1", w.Started())
	}
}

func TestFakeWatcherStartedCountsMultipleCalls(t *testing.T) {
	w := &FakeWatcher{}
	w.Start(nil)
	w.Start(nil)
	if w.Started() != 2 {
		t.Errorf("Started() = %d, want 2", w.Started())
	}
}
