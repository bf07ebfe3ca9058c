package sa430

import (
	"sync"

	"github.com/DKrepsky/sa430/internal/protocol"
	"github.com/DKrepsky/sa430/internal/serialtransport"
)

// Device is the top-level handle for one SA430 unit: it owns exactly one
// Transport for its entire lifetime, and serializes all transactions
// through a single Session. A Device is safe for concurrent use; only one
// transaction is ever in flight because Session itself serializes callers.
type Device struct {
	port      string
	transport serialtransport.Transport
	session   *Session
	identity  DeviceIdentity

	mu    sync.RWMutex
	cal   *CalibrationImage
	rf    RfSettings
	cache betaCache
}

// Open opens the serial port at path and runs the initialization sequence
// against it, returning a ready-to-use Device. The returned Device owns the
// transport; closing the Device closes it.
func Open(path string) (*Device, error) {
	transport, err := serialtransport.Open(path)
	if err != nil {
		return nil, err
	}

	session := NewSession(transport, serialtransport.DefaultDeadline)
	identity, err := Initialize(session)
	if err != nil {
		transport.Close()
		return nil, err
	}

	return &Device{
		port:      path,
		transport: transport,
		session:   session,
		identity:  identity,
	}, nil
}

// Identity returns the version and serial information collected during
// initialization.
func (d *Device) Identity() DeviceIdentity {
	return d.identity
}

// Close releases the device's transport. It must be called exactly once.
func (d *Device) Close() error {
	return d.transport.Close()
}

// maxFlashReadChunk is the largest payload a single FLASH_READ response
// frame can carry, bounded by protocol.MaxDataLen.
const maxFlashReadChunk = protocol.MaxDataLen

// LoadCalibration reads the flash calibration image (1681 bytes starting at
// 0xD400: a 10-byte header plus the 1671-byte CalData body) and parses it,
// storing the result for use by subsequent sweeps. The image exceeds one
// frame's 255-byte payload limit, so it is read in ⌈1681/255⌉ = 7 FLASH_READ
// sub-transactions and the payloads are concatenated in order; any
// sub-transaction error aborts the whole read. The calibration image is
// treated as immutable once loaded.
func (d *Device) LoadCalibration() (*CalibrationImage, error) {
	raw := make([]byte, 0, calFlashLen)

	for addr := calFlashAddr; uint32(addr) < uint32(calFlashAddr)+uint32(calFlashLen); addr += maxFlashReadChunk {
		remaining := uint32(calFlashAddr) + uint32(calFlashLen) - uint32(addr)
		size := uint16(maxFlashReadChunk)
		if remaining < maxFlashReadChunk {
			size = uint16(remaining)
		}

		payload := protocol.EncodeFlashRead(addr, size)
		chunk, err := d.session.ExecWithResponse(protocol.CmdFlashRead, payload)
		if err != nil {
			return nil, err
		}
		raw = append(raw, chunk...)
	}

	cal, err := ParseCalibrationImage(raw)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.cal = cal
	d.cache.invalidate()
	d.mu.Unlock()

	return cal, nil
}

// Calibration returns the currently loaded calibration image, or nil if
// none has been loaded yet.
func (d *Device) Calibration() *CalibrationImage {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cal
}

// Configure validates and applies a new RF configuration: it writes
// SET_F_START/SET_F_STOP/SET_F_STEP/SET_RBW/SET_IF/SET_GAIN to the device
// and, on success, makes rf the device's active configuration. This
// invalidates the sample-correction coefficient cache.
func (d *Device) Configure(fStartHz, fStopHz, fStepHz, rbwHz float64, refLvlDbm int) (RfSettings, error) {
	gain, ok := EncodeRefLevel(refLvlDbm)
	if !ok {
		return RfSettings{}, &InvalidArgumentError{Reason: "unsupported reference level"}
	}

	rf, err := NewRfSettings(fStartHz, fStopHz, fStepHz, rbwHz, indexOfRefLevel(refLvlDbm))
	if err != nil {
		return RfSettings{}, err
	}

	cal := d.Calibration()

	startReg := CompensateFreq(fStartHz/1e6, cal)
	stopReg := CompensateFreq(fStopHz/1e6, cal)
	stepReg := CompensateStep(fStepHz/1e6, cal)

	easyRf := ResolveEasyRf(rbwHz / 1e6)
	rf.RbwIndex = easyRf.RbwIndex
	rbwReg, ifReg := RbwRegisters(rf.RbwIndex)

	steps := []struct {
		cmd     protocol.Command
		payload []byte
	}{
		{protocol.CmdSetFStart, protocol.EncodeSetFreq(startReg)},
		{protocol.CmdSetFStop, protocol.EncodeSetFreq(stopReg)},
		{protocol.CmdSetFStep, protocol.EncodeSetFStep(stepReg)},
		{protocol.CmdSetRbw, protocol.EncodeU8(rbwReg)},
		{protocol.CmdSetIf, protocol.EncodeU8(ifReg)},
		{protocol.CmdSetGain, protocol.EncodeU8(gain)},
	}

	for _, step := range steps {
		if err := d.session.Exec(step.cmd, step.payload); err != nil {
			return RfSettings{}, err
		}
	}

	d.mu.Lock()
	d.rf = rf
	d.cache.invalidate()
	d.mu.Unlock()

	return rf, nil
}

// indexOfRefLevel maps a dBm value to its Table 8 slot index, matching the
// literal ordering used when the calibration image's gain matrix was built.
func indexOfRefLevel(dbm int) int {
	for i, e := range refLevelTable {
		if e.dbm == dbm {
			return i
		}
	}
	return -1
}

// Sweep runs one GET_SPEC_NO_INIT streaming acquisition against the
// device's current RF configuration and calibration data.
func (d *Device) Sweep() (SweepResult, error) {
	// The write lock is held for the whole sweep because Sweep updates
	// d.cache.
	d.mu.Lock()
	defer d.mu.Unlock()

	return Sweep(d.session, d.rf, d.cal, &d.cache, d.port)
}

// Reboot sends HW_RESET and returns once the device acknowledges it. The
// caller must reopen a new Device afterward; this Device's transport is no
// longer usable once the unit resets.
func (d *Device) Reboot() error {
	return d.session.Exec(protocol.CmdHwReset, nil)
}

// BlinkLed sends BLINK_LED, a diagnostic aid with no data effect.
func (d *Device) BlinkLed() error {
	return d.session.Exec(protocol.CmdBlinkLed, nil)
}
