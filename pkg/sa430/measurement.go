package sa430

import (
	"time"

	"github.com/DKrepsky/sa430/internal/metrics"
	"github.com/DKrepsky/sa430/internal/protocol"
)

// Version floors enforced during device initialization. Firmware below
// these, or reporting the 0xFFFF sentinel, is rejected as unsupported.
const (
	minCoreVersion = 0x0209
	minSpecVersion = 0x0204
	sentinelVer    = 0xFFFF
)

// DeviceIdentity is the set of identifying values collected during
// initialization and surfaced to callers for diagnostics.
type DeviceIdentity struct {
	CoreVersion uint16
	SpecVersion uint16
	HwSerialNr  uint32
	Idn         string
}

// Initialize runs the init sequence: GET_CORE_VER, GET_HW_SER_NR, GET_IDN,
// INIT_PARAMETER, GET_SPEC_VER, validating firmware/identity acceptance
// checks at each step. It returns an *UnsupportedDeviceError on the first
// violated check.
func Initialize(s *Session) (DeviceIdentity, error) {
	var id DeviceIdentity

	coreRaw, err := s.ExecWithResponse(protocol.CmdGetCoreVer, nil)
	if err != nil {
		return id, err
	}
	coreVer, err := protocol.DecodeU16(coreRaw)
	if err != nil {
		return id, err
	}
	if coreVer == sentinelVer || coreVer < minCoreVersion {
		return id, &UnsupportedDeviceError{Reason: "core version below minimum supported"}
	}
	id.CoreVersion = coreVer

	serRaw, err := s.ExecWithResponse(protocol.CmdGetHwSerNr, nil)
	if err != nil {
		return id, err
	}
	serNr, err := protocol.DecodeU32(serRaw)
	if err != nil {
		return id, err
	}
	id.HwSerialNr = serNr

	idnRaw, err := s.ExecWithResponse(protocol.CmdGetIdn, nil)
	if err != nil {
		return id, err
	}
	idn, err := protocol.DecodeIdn(idnRaw)
	if err != nil {
		return id, err
	}
	if idn == "" {
		return id, &UnsupportedDeviceError{Reason: "empty IDN string"}
	}
	id.Idn = idn

	if err := s.Exec(protocol.CmdInitParameter, nil); err != nil {
		return id, err
	}

	specRaw, err := s.ExecWithResponse(protocol.CmdGetSpecVer, nil)
	if err != nil {
		return id, err
	}
	specVer, err := protocol.DecodeU16(specRaw)
	if err != nil {
		return id, err
	}
	if specVer == sentinelVer || specVer < minSpecVersion {
		return id, &UnsupportedDeviceError{Reason: "spectrum firmware version below minimum supported"}
	}
	id.SpecVersion = specVer

	return id, nil
}

// Sample is one corrected power measurement at a given frequency.
type Sample struct {
	FreqHz  float64
	PowerDb float64
}

// betaCache memoizes the calibration coefficients selected for the device's
// active (range, reference level) pair so repeated sweeps with unchanged
// RfSettings skip the gain-matrix lookup per sample. It is invalidated
// whenever RfSettings or the loaded calibration image changes.
type betaCache struct {
	rangeIndex  int
	refLvlIndex int
	coeffs      [8]float64
	valid       bool
}

// invalidate marks the cache stale; called whenever RfSettings or the
// loaded calibration image changes.
func (c *betaCache) invalidate() {
	c.valid = false
}

// coefficientsFor returns the gain-correction coefficients for rf, using
// the cached value when rf's (range, reference level) still matches it.
func (c *betaCache) coefficientsFor(rf RfSettings, cal *CalibrationImage) [8]float64 {
	if c.valid && c.rangeIndex == rf.RangeIndex && c.refLvlIndex == rf.RefLvlIndex {
		return c.coeffs
	}

	coeffs := [8]float64{}
	if cal != nil {
		coeffs = cal.GainCoefficients(rf.RangeIndex, rf.RefLvlIndex).Values
	}

	c.rangeIndex = rf.RangeIndex
	c.refLvlIndex = rf.RefLvlIndex
	c.coeffs = coeffs
	c.valid = true
	return coeffs
}

// beta evaluates the gain-correction polynomial at freqMHz using Horner's
// method: beta(f) = sum_{i=0..7} coeffs[i]*f^i, so coeffs[0] is the
// constant term and coeffs[7] the highest-degree one, matching the flash
// image's stored order (spec §4.9).
func beta(coeffs [8]float64, freqMHz float64) float64 {
	result := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = result*freqMHz + coeffs[i]
	}
	return result
}

// SweepResult accumulates corrected samples from one GET_SPEC_NO_INIT
// streaming transaction.
type SweepResult struct {
	Samples []Sample
	Status  protocol.ErrorCode
}

// Sweep runs one GET_SPEC_NO_INIT streaming transaction against the current
// rf settings and calibration data, applying sample correction
// P(n) = sample_byte(n)/2 - beta(f(n)) to every returned byte. portLabel
// identifies the device for the sweep-duration metric.
func Sweep(s *Session, rf RfSettings, cal *CalibrationImage, cache *betaCache, portLabel string) (SweepResult, error) {
	start := time.Now()
	defer func() {
		metrics.SweepDuration.WithLabelValues(portLabel).Observe(time.Since(start).Seconds())
	}()

	var result SweepResult

	coeffs := cache.coefficientsFor(rf, cal)

	fStepHz := rf.FStepHz
	fStartHz := rf.FStartHz
	n := 0

	onData := func(data []byte) {
		for _, sampleByte := range data {
			freqHz := fStartHz + float64(n)*fStepHz
			freqMHz := freqHz / 1e6
			powerDb := float64(sampleByte)/2 - beta(coeffs, freqMHz)
			result.Samples = append(result.Samples, Sample{FreqHz: freqHz, PowerDb: powerDb})
			n++
		}
	}

	status, err := s.StreamUntilStatus(protocol.CmdGetSpecNoInit, sweepPayload(rf), onData)
	if err != nil {
		return result, err
	}
	result.Status = status
	if status != protocol.ErrNoError {
		return result, &MeasurementFailedError{Code: status}
	}
	return result, nil
}

// sweepPayload builds the GET_SPEC_NO_INIT request payload: the RBW table
// index and reference-level index the device should use for this sweep.
func sweepPayload(rf RfSettings) []byte {
	return []byte{byte(rf.RbwIndex), byte(rf.RefLvlIndex)}
}
