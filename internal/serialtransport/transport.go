// Package serialtransport provides the SA430's transport abstraction: a
// bidirectional byte stream with a configurable per-operation deadline. The
// reference backend opens the host serial port with the SA430's fixed
// parameters; a session layer built against the Transport interface never
// needs to know it is talking to a real port.
package serialtransport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// DefaultDeadline is the default per-operation timeout when none is set.
const DefaultDeadline = 1 * time.Second

const (
	baudRate = 926100
)

// Transport is a bidirectional byte stream with a configurable deadline.
// Implementations must surface underlying I/O failures as a distinct error
// (see TransportFailure / IsTransportError) so callers do not confuse them
// with protocol-level NACKs.
type Transport interface {
	io.Writer
	// ReadByte blocks for at most the configured deadline waiting for one
	// byte from the device.
	ReadByte() (byte, error)
	// SetDeadline changes the per-operation wait bound for subsequent reads.
	SetDeadline(d time.Duration) error
	// Flush discards any buffered inbound bytes.
	Flush() error
	Close() error
}

// TransportFailure is the marker interface transport-layer errors satisfy,
// letting the session layer distinguish an I/O failure from protocol
// framing or a device NACK without depending on a concrete error type. A
// fake Transport used in tests can return its own error type as long as it
// implements this interface.
type TransportFailure interface {
	error
	IsTransportFailure()
}

// timeouter is implemented by a TransportFailure that represents a read
// deadline expiry, as opposed to a genuine I/O error such as a disconnect.
type timeouter interface {
	Timeout() bool
}

// transportError wraps an underlying I/O failure (open failure, disconnect,
// read/write error) so the session layer can distinguish it from a
// protocol-level NACK. timeout is set only for the deadline-expiry case
// (ReadByte returning zero bytes with no underlying error); any other
// wrapped failure is a genuine I/O error, e.g. a disconnect.
type transportError struct {
	err     error
	timeout bool
}

func (e *transportError) Error() string       { return fmt.Sprintf("serialtransport: %v", e.err) }
func (e *transportError) Unwrap() error       { return e.err }
func (e *transportError) IsTransportFailure() {}
func (e *transportError) Timeout() bool       { return e.timeout }

// IsTransportError reports whether err originated from the transport layer
// rather than from protocol framing or a device NACK.
func IsTransportError(err error) bool {
	var tf TransportFailure
	return errors.As(err, &tf)
}

// IsTimeout reports whether err is a TransportFailure representing read
// deadline expiry rather than some other I/O failure (e.g. a disconnect).
// It returns false for a TransportFailure that does not implement
// timeouter, treating it as a non-timeout failure.
func IsTimeout(err error) bool {
	var t timeouter
	return errors.As(err, &t) && t.Timeout()
}

// SerialTransport is the reference Transport backend: a host serial port
// opened at the SA430's fixed line settings.
type SerialTransport struct {
	port     serial.Port
	deadline time.Duration
}

// Open opens the host serial port named by path with the SA430's required
// settings: 926100 baud, 8 data bits, 1 stop bit, no parity, hardware flow
// control enabled.
func Open(path string) (*SerialTransport, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("opening %s: %w", path, err)}
	}

	if err := port.SetRTS(true); err != nil {
		port.Close()
		return nil, &transportError{err: fmt.Errorf("enabling hardware flow control on %s: %w", path, err)}
	}

	t := &SerialTransport{port: port, deadline: DefaultDeadline}
	if err := t.SetDeadline(DefaultDeadline); err != nil {
		port.Close()
		return nil, err
	}
	return t, nil
}

// Write writes p to the port, blocking until the whole buffer is flushed to
// the OS or an error occurs. A single Write call is treated as one atomic
// frame transmission by callers.
func (t *SerialTransport) Write(p []byte) (int, error) {
	n, err := t.port.Write(p)
	if err != nil {
		return n, &transportError{err: err}
	}
	return n, nil
}

// ReadByte blocks for at most the configured deadline waiting for one byte.
func (t *SerialTransport) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := t.port.Read(buf[:])
	if err != nil {
		return 0, &transportError{err: err}
	}
	if n == 0 {
		return 0, &transportError{err: errors.New("read timeout"), timeout: true}
	}
	return buf[0], nil
}

// SetDeadline changes the read timeout for subsequent ReadByte calls.
func (t *SerialTransport) SetDeadline(d time.Duration) error {
	t.deadline = d
	if err := t.port.SetReadTimeout(d); err != nil {
		return &transportError{err: err}
	}
	return nil
}

// Flush discards buffered inbound bytes.
func (t *SerialTransport) Flush() error {
	if err := t.port.ResetInputBuffer(); err != nil {
		return &transportError{err: err}
	}
	return nil
}

// Close closes the underlying serial port.
func (t *SerialTransport) Close() error {
	if err := t.port.Close(); err != nil {
		return &transportError{err: err}
	}
	return nil
}
