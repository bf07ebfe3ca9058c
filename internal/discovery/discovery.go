// Package discovery defines the SA430's collaborator boundary for finding
// devices attached to the host: a Scanner capability that lists currently
// connected units, and a Watcher capability that streams connect/disconnect
// events. Concrete OS-specific enumeration (udev on Linux, WinUSB/SetupAPI
// on Windows) is out of scope; this package only defines the contract and a
// fake implementation for tests.
package discovery

// USBVendorID and USBProductID identify an SA430 unit on the USB bus.
const (
	USBVendorID  = 0x2047
	USBProductID = 0x0005
)

// Port identifies one discovered SA430 device: enough to open a transport,
// plus the identity fields a scan listing displays.
type Port struct {
	Name            string
	SerialNumber    string
	FirmwareVersion string
}

// Scanner lists SA430 devices currently attached to the host.
type Scanner interface {
	Scan() ([]Port, error)
}

// EventKind distinguishes a connect from a disconnect notification.
type EventKind int

const (
	DeviceAdded EventKind = iota
	DeviceRemoved
)

// Event is one connect/disconnect notification delivered to a Watcher's
// handler.
type Event struct {
	Kind EventKind
	Port Port
}

// EventHandler receives Events from a Watcher.
type EventHandler interface {
	Handle(event Event)
}

// Watcher streams connect/disconnect events to subscribed handlers. Start
// blocks, running until the provided channel is closed or an unrecoverable
// OS error occurs.
type Watcher interface {
	Subscribe(handler EventHandler)
	Start(stop <-chan struct{}) error
}

// FakeScanner is a Scanner test double that always returns a fixed port
// list, or a scan error if one was set.
type FakeScanner struct {
	Ports []Port
	Err   error
}

// NewFakeScanner returns a FakeScanner seeded with three representative
// ports, mirroring the fixture devices used across this package's tests.
func NewFakeScanner() *FakeScanner {
	return &FakeScanner{
		Ports: []Port{
			{Name: "/dev/ttyUSB1", SerialNumber: "08FF41E50F8B3A34", FirmwareVersion: "0104"},
			{Name: "/dev/ttyUSB2", SerialNumber: "08FF41E50F8B3A35", FirmwareVersion: "0104"},
			{Name: "/dev/ttyUSB3", SerialNumber: "08FF41E50F8B3A36", FirmwareVersion: "0102"},
		},
	}
}

// Scan returns the fixed port list, or Err if one was set.
func (f *FakeScanner) Scan() ([]Port, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Ports, nil
}

// FakeWatcher is a Watcher test double that replays a fixed Event sequence
// to every subscribed handler when Start is called.
type FakeWatcher struct {
	Events   []Event
	handlers []EventHandler
	started  int
}

// Subscribe registers handler to receive events on the next Start call.
func (w *FakeWatcher) Subscribe(handler EventHandler) {
	w.handlers = append(w.handlers, handler)
}

// Start replays Events to every subscribed handler once, then returns.
func (w *FakeWatcher) Start(stop <-chan struct{}) error {
	w.started++
	for _, event := range w.Events {
		for _, h := range w.handlers {
			h.Handle(event)
		}
	}
	return nil
}

// Started reports how many times Start has been called.
func (w *FakeWatcher) Started() int {
	return w.started
}
