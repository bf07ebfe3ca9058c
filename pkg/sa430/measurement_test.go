package sa430

import (
	"testing"
	"time"

	"github.com/DKrepsky/sa430/internal/protocol"
)

func mustFrame(t *testing.T, cmd protocol.Command, data []byte) protocol.Frame {
	f, err := protocol.NewFrame(cmd, data)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	return f
}

// ackThenData builds the two-frame ACK+data sequence ExecWithResponse
// expects for one GET-style command: an empty-payload ACK for cmd,
// followed by a data frame for cmd carrying payload.
func ackThenData(t *testing.T, cmd protocol.Command, payload []byte) []byte {
	var b []byte
	b = append(b, mustFrame(t, cmd, nil).Marshal()...)
	b = append(b, mustFrame(t, cmd, payload).Marshal()...)
	return b
}

func TestInitializeAcceptsSupportedDevice(t *testing.T) {
	var inbound []byte
	inbound = append(inbound, ackThenData(t, protocol.CmdGetCoreVer, []byte{0x02, 0x09})...)
	inbound = append(inbound, ackThenData(t, protocol.CmdGetHwSerNr, []byte{0x00, 0x00, 0x00, 0x2A})...)
	inbound = append(inbound, ackThenData(t, protocol.CmdGetIdn, []byte("SA430\x00\x00\x00"))...)
	inbound = append(inbound, mustFrame(t, protocol.CmdInitParameter, nil).Marshal()...)
	inbound = append(inbound, ackThenData(t, protocol.CmdGetSpecVer, []byte{0x02, 0x04})...)

	mt := &mockTransport{Inbound: inbound}
	s := NewSession(mt, 50*time.Millisecond)

	id, err := Initialize(s)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if id.CoreVersion != 0x0209 {
		t.Errorf("CoreVersion = %#x, want 0x0209", id.CoreVersion)
	}
	if id.SpecVersion != 0x0204 {
		t.Errorf("SpecVersion = %#x, want 0x0204", id.SpecVersion)
	}
	if id.HwSerialNr != 0x2A {
		t.Errorf("HwSerialNr = %#x, want 0x2A", id.HwSerialNr)
	}
	if id.Idn != "SA430" {
		t.Errorf("Idn = %q, want %q", id.Idn, "SA430")
	}
}

func TestInitializeRejectsLowCoreVersion(t *testing.T) {
	inbound := ackThenData(t, protocol.CmdGetCoreVer, []byte{0x02, 0x00})

	mt := &mockTransport{Inbound: inbound}
	s := NewSession(mt, 50*time.Millisecond)

	_, err := Initialize(s)
	if _, ok := err.(*UnsupportedDeviceError); !ok {
		t.Fatalf("err = %T, want *UnsupportedDeviceError", err)
	}
}

func TestInitializeRejectsSentinelCoreVersion(t *testing.T) {
	inbound := ackThenData(t, protocol.CmdGetCoreVer, []byte{0xFF, 0xFF})

	mt := &mockTransport{Inbound: inbound}
	s := NewSession(mt, 50*time.Millisecond)

	_, err := Initialize(s)
	if _, ok := err.(*UnsupportedDeviceError); !ok {
		t.Fatalf("err = %T, want *UnsupportedDeviceError", err)
	}
}

func TestInitializeRejectsEmptyIdn(t *testing.T) {
	var inbound []byte
	inbound = append(inbound, ackThenData(t, protocol.CmdGetCoreVer, []byte{0x02, 0x09})...)
	inbound = append(inbound, ackThenData(t, protocol.CmdGetHwSerNr, []byte{0x00, 0x00, 0x00, 0x01})...)
	inbound = append(inbound, ackThenData(t, protocol.CmdGetIdn, []byte{0x00, 0x00, 0x00})...)

	mt := &mockTransport{Inbound: inbound}
	s := NewSession(mt, 50*time.Millisecond)

	_, err := Initialize(s)
	if _, ok := err.(*UnsupportedDeviceError); !ok {
		t.Fatalf("err = %T, want *UnsupportedDeviceError", err)
	}
}

func TestBetaHornersMethod(t *testing.T) {
	// coeffs[i] is the coefficient of f^i: coeffs[0] is the constant term,
	// coeffs[1] the linear term.
	coeffs := [8]float64{3, 2, 0, 0, 0, 0, 0, 0}
	got := beta(coeffs, 5.0)
	want := 3.0 + 2.0*5.0
	if got != want {
		t.Errorf("beta = %v, want %v", got, want)
	}
}

func TestBetaCacheReusesCoefficientsForSameRangeAndRefLvl(t *testing.T) {
	cal := &CalibrationImage{Data: aCalData()}
	var cache betaCache

	rf1 := RfSettings{RangeIndex: 1, RefLvlIndex: 2}
	c1 := cache.coefficientsFor(rf1, cal)
	if !cache.valid {
		t.Fatal("cache not marked valid after first lookup")
	}

	// Mutate the calibration image; if the cache is reused it must still
	// return the stale coefficients already captured in c1.
	cal.Data.FreqGainCoeffs[1][2].Values[0] = 999.0
	c2 := cache.coefficientsFor(rf1, cal)
	if c1 != c2 {
		t.Errorf("cache did not reuse coefficients for unchanged (range, refLvl)")
	}
}

func TestBetaCacheInvalidatesOnRangeChange(t *testing.T) {
	cal := &CalibrationImage{Data: aCalData()}
	var cache betaCache

	rf1 := RfSettings{RangeIndex: 0, RefLvlIndex: 0}
	cache.coefficientsFor(rf1, cal)

	rf2 := RfSettings{RangeIndex: 1, RefLvlIndex: 0}
	got := cache.coefficientsFor(rf2, cal)
	want := cal.GainCoefficients(1, 0).Values
	if got != want {
		t.Errorf("coefficientsFor after range change = %v, want %v", got, want)
	}
}

func TestBetaCacheInvalidateForcesRecompute(t *testing.T) {
	cal := &CalibrationImage{Data: aCalData()}
	var cache betaCache

	rf := RfSettings{RangeIndex: 0, RefLvlIndex: 0}
	cache.coefficientsFor(rf, cal)
	cache.invalidate()
	if cache.valid {
		t.Fatal("invalidate() left cache valid")
	}
}

func TestSweepAppliesSampleCorrection(t *testing.T) {
	ackFrame := mustFrame(t, protocol.CmdGetSpecNoInit, nil)
	dataFrame := mustFrame(t, protocol.CmdGetSpecNoInit, []byte{100})
	statusFrame := mustFrame(t, protocol.CmdGetLastError, []byte{0x00, 0x00})

	var inbound []byte
	for _, f := range []protocol.Frame{ackFrame, dataFrame, statusFrame} {
		inbound = append(inbound, f.Marshal()...)
	}

	mt := &mockTransport{Inbound: inbound}
	s := NewSession(mt, 50*time.Millisecond)

	rf := RfSettings{RangeIndex: 0, RefLvlIndex: 0, FStartHz: 300e6, FStepHz: 1e6}
	var cache betaCache

	result, err := Sweep(s, rf, nil, &cache, "test-port")
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(result.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(result.Samples))
	}
	// With no calibration loaded, beta() degenerates to all-zero
	// coefficients, so the correction term is zero.
	if result.Samples[0].PowerDb != 50.0 {
		t.Errorf("PowerDb = %v, want 50.0", result.Samples[0].PowerDb)
	}
	if result.Samples[0].FreqHz != 300e6 {
		t.Errorf("FreqHz = %v, want 300e6", result.Samples[0].FreqHz)
	}
}

func TestSweepReturnsMeasurementFailedOnNonZeroStatus(t *testing.T) {
	ackFrame := mustFrame(t, protocol.CmdGetSpecNoInit, nil)
	statusFrame := mustFrame(t, protocol.CmdGetLastError, []byte{0x03, 0x26})

	var inbound []byte
	for _, f := range []protocol.Frame{ackFrame, statusFrame} {
		inbound = append(inbound, f.Marshal()...)
	}

	mt := &mockTransport{Inbound: inbound}
	s := NewSession(mt, 50*time.Millisecond)

	rf := RfSettings{}
	var cache betaCache

	_, err := Sweep(s, rf, nil, &cache, "test-port")
	mf, ok := err.(*MeasurementFailedError)
	if !ok {
		t.Fatalf("err = %T, want *MeasurementFailedError", err)
	}
	if mf.Code != protocol.ErrRestoreProgramCounter {
		t.Errorf("Code = %v, want ErrRestoreProgramCounter", mf.Code)
	}
}
