package sa430

import (
	"errors"
	"sync"
	"time"

	"github.com/DKrepsky/sa430/internal/metrics"
	"github.com/DKrepsky/sa430/internal/protocol"
	"github.com/DKrepsky/sa430/internal/serialtransport"
)

// Session executes synchronous SA430 request/response transactions over a
// Transport: write exactly one request frame, then drive the receive state
// machine from inbound bytes until the transaction reaches a terminal
// outcome. A Session is not reentrant — at most one transaction is in
// flight at a time.
type Session struct {
	transport serialtransport.Transport
	rx        *protocol.Receiver
	deadline  time.Duration
	mu        sync.Mutex
}

// NewSession creates a Session over transport with the given per-frame
// deadline.
func NewSession(transport serialtransport.Transport, deadline time.Duration) *Session {
	return &Session{
		transport: transport,
		rx:        protocol.NewReceiver(),
		deadline:  deadline,
	}
}

// readFrame drives the receive state machine byte-by-byte until it emits a
// complete frame, a framing error, or the deadline expires. On timeout or
// framing error it flushes the transport and resets the state machine
// before returning, per the session's deadline-recovery contract.
func (s *Session) readFrame(cmd protocol.Command) (protocol.Frame, error) {
	deadline := time.Now().Add(s.deadline)

	for {
		if time.Now().After(deadline) {
			s.abort()
			metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeTimeout).Inc()
			return protocol.Frame{}, &TimeoutError{Cmd: cmd}
		}

		if err := s.transport.SetDeadline(s.deadline); err != nil {
			return protocol.Frame{}, err
		}

		b, err := s.transport.ReadByte()
		if err != nil {
			if serialtransport.IsTransportError(err) {
				s.abort()
				if serialtransport.IsTimeout(err) {
					metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeTimeout).Inc()
					return protocol.Frame{}, &TimeoutError{Cmd: cmd}
				}
				metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeTransportError).Inc()
				return protocol.Frame{}, &TransportError{Cmd: cmd, Err: err}
			}
			return protocol.Frame{}, err
		}

		frame, ok, ferr := s.rx.Step(b)
		if ferr != nil {
			s.abort()
			metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeFrameError).Inc()
			return protocol.Frame{}, &FrameErrorWrap{Cmd: cmd, Err: ferr}
		}
		if ok {
			return frame, nil
		}
	}
}

// abort flushes buffered inbound bytes and resets the receive state
// machine, recovering the session for the next transaction.
func (s *Session) abort() {
	s.transport.Flush()
	s.rx.Reset()
}

// writeRequest serializes and writes cmd/payload as one atomic frame.
func (s *Session) writeRequest(cmd protocol.Command, payload []byte) error {
	frame, err := protocol.NewFrame(cmd, payload)
	if err != nil {
		return &InvalidArgumentError{Reason: err.Error()}
	}
	if _, err := s.transport.Write(frame.Marshal()); err != nil {
		return err
	}
	return nil
}

// classifyFirst reads the first response frame and classifies it as ACK or
// NACK. A NACK returns a *ProtocolError. An ACK for a different command
// than requested is treated as a framing anomaly.
func (s *Session) classifyFirst(cmd protocol.Command) error {
	frame, err := s.readFrame(cmd)
	if err != nil {
		return err
	}

	if frame.Cmd == protocol.CmdGetLastError && len(frame.Data) == 2 {
		code := protocol.ErrorCodeFromBytes(frame.Data)
		if code != protocol.ErrNoError {
			metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeNack).Inc()
			return &ProtocolError{Cmd: cmd, Code: code}
		}
		metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeAck).Inc()
		return nil
	}

	if frame.Cmd != cmd {
		return &FrameErrorWrap{Cmd: cmd, Err: errors.New("unexpected command in ACK frame")}
	}
	if len(frame.Data) != 0 {
		return &FrameErrorWrap{Cmd: cmd, Err: errors.New("expected empty ACK payload")}
	}
	metrics.TransactionsTotal.WithLabelValues(metrics.OutcomeAck).Inc()
	return nil
}

// Exec runs an ACK-only transaction: write the request, expect a bare ACK,
// and return once it arrives (or surface the NACK/timeout/framing error).
func (s *Session) Exec(cmd protocol.Command, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rx.Reset()
	if err := s.writeRequest(cmd, payload); err != nil {
		return err
	}
	return s.classifyFirst(cmd)
}

// ExecWithResponse runs a transaction expecting an ACK followed by exactly
// one data frame carrying the response payload.
func (s *Session) ExecWithResponse(cmd protocol.Command, payload []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rx.Reset()
	if err := s.writeRequest(cmd, payload); err != nil {
		return nil, err
	}
	if err := s.classifyFirst(cmd); err != nil {
		return nil, err
	}

	frame, err := s.readFrame(cmd)
	if err != nil {
		return nil, err
	}
	if frame.Cmd != cmd {
		return nil, &FrameErrorWrap{Cmd: cmd, Err: errors.New("unexpected command in data frame")}
	}
	return frame.Data, nil
}

// StreamUntilStatus runs a transaction whose ACK is followed by zero or
// more data frames carrying the same command, terminated by a
// GET_LAST_ERROR frame. It is used by the measurement pipeline's sweep
// command (GET_SPEC_NO_INIT). onData is called once per data frame's
// payload, in arrival order. Returns the terminal error code (ErrNoError on
// success) or an error if the transaction itself failed.
func (s *Session) StreamUntilStatus(cmd protocol.Command, payload []byte, onData func([]byte)) (protocol.ErrorCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rx.Reset()
	if err := s.writeRequest(cmd, payload); err != nil {
		return 0, err
	}
	if err := s.classifyFirst(cmd); err != nil {
		return 0, err
	}

	for {
		frame, err := s.readFrame(cmd)
		if err != nil {
			return 0, err
		}

		if frame.Cmd == protocol.CmdGetLastError && len(frame.Data) == 2 {
			return protocol.ErrorCodeFromBytes(frame.Data), nil
		}

		if frame.Cmd != cmd {
			return 0, &FrameErrorWrap{Cmd: cmd, Err: errors.New("unexpected command in stream frame")}
		}
		onData(frame.Data)
	}
}
