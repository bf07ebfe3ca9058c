package sa430

import (
	"fmt"

	"github.com/DKrepsky/sa430/internal/protocol"
)

// TimeoutError means a transaction's deadline expired before the session
// reached a terminal outcome.
type TimeoutError struct {
	Cmd protocol.Command
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("sa430: timeout waiting for response to %s", e.Cmd)
}

// TransportError means the underlying transport failed for a reason other
// than deadline expiry — a disconnect, a write failure, or another I/O
// error surfaced by the Transport implementation.
type TransportError struct {
	Cmd protocol.Command
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sa430: transport failure during %s: %v", e.Cmd, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }

// FrameErrorWrap surfaces a framing failure during a transaction: a bad CRC
// reported by the receive state machine, or a well-formed frame the session
// did not expect (wrong command, non-empty ACK payload).
type FrameErrorWrap struct {
	Cmd protocol.Command
	Err error
}

func (e *FrameErrorWrap) Error() string {
	return fmt.Sprintf("sa430: framing error during %s: %v", e.Cmd, e.Err)
}
func (e *FrameErrorWrap) Unwrap() error { return e.Err }

// ProtocolError means the device returned a NACK with a specific error
// code from Appendix B.
type ProtocolError struct {
	Cmd  protocol.Command
	Code protocol.ErrorCode
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("sa430: device rejected %s: %s (0x%04X)", e.Cmd, e.Code, uint16(e.Code))
}

// UnsupportedDeviceError means the version or identity checks performed
// during initialization failed.
type UnsupportedDeviceError struct {
	Reason string
}

func (e *UnsupportedDeviceError) Error() string {
	return fmt.Sprintf("sa430: unsupported device: %s", e.Reason)
}

// CalibrationInvalidError means the flash calibration image failed to
// validate (header constants, length, or CRC).
type CalibrationInvalidError struct {
	Reason string
}

func (e *CalibrationInvalidError) Error() string {
	return fmt.Sprintf("sa430: invalid calibration image: %s", e.Reason)
}

// MeasurementFailedError means a sweep terminated with a non-zero status
// code.
type MeasurementFailedError struct {
	Code protocol.ErrorCode
}

func (e *MeasurementFailedError) Error() string {
	return fmt.Sprintf("sa430: measurement failed: %s (0x%04X)", e.Code, uint16(e.Code))
}

// InvalidArgumentError means the caller supplied an out-of-band value (bad
// frequency, oversized length, unknown range, ...).
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("sa430: invalid argument: %s", e.Reason)
}
