package sa430

import (
	"math"
)

// defaultXtalFreqMHz is used to compensate frequencies when no calibration
// image has been loaded yet.
const defaultXtalFreqMHz = 26.0

// band describes one of the SA430's three selectable RF bands.
type band struct {
	loMHz, hiMHz   float64
	bwMinMHz       float64
	bwMaxMHz       float64
}

var bands = [3]band{
	{loMHz: 300, hiMHz: 348, bwMinMHz: 0.1, bwMaxMHz: 48},
	{loMHz: 389, hiMHz: 464, bwMinMHz: 0.1, bwMaxMHz: 75},
	{loMHz: 779, hiMHz: 928, bwMinMHz: 0.1, bwMaxMHz: 74.5},
}

// RfSettings holds a validated RF configuration: the selected band,
// start/stop/step frequencies in Hz, resolution-bandwidth table index, and
// reference-level table index.
type RfSettings struct {
	RangeIndex  int
	FStartHz    float64
	FStopHz     float64
	FStepHz     float64
	RbwIndex    int
	RefLvlIndex int
}

// rbwEntry is one row of Table 7, the Easy-RF resolution-bandwidth table.
type rbwEntry struct {
	khz         float64
	regValue    byte
	regValueIf  byte
}

var rbwTable = [16]rbwEntry{
	{58.0, 0x00, 0x00},
	{67.7, 0x01, 0x01},
	{81.3, 0x02, 0x02},
	{101.6, 0x03, 0x03},
	{116.1, 0x04, 0x04},
	{135.4, 0x05, 0x05},
	{162.5, 0x06, 0x06},
	{203.1, 0x07, 0x07},
	{232.1, 0x08, 0x08},
	{270.8, 0x09, 0x09},
	{325.0, 0x0A, 0x0A},
	{406.3, 0x0B, 0x0B},
	{464.3, 0x0C, 0x0C},
	{541.7, 0x0D, 0x0D},
	{650.0, 0x0E, 0x0E},
	{812.5, 0x0F, 0x0F},
}

// refLevelTable is the static dBm-to-gain-register lookup from §4.8. Table
// 8's values are non-monotonic, so this is a literal lookup rather than a
// formula (spec.md §9 Open Questions).
var refLevelTable = []struct {
	dbm  int
	gain byte
}{
	{-35, 128},
	{-40, 144},
	{-45, 145},
	{-50, 74},
	{-55, 12},
	{-60, 179},
	{-65, 44},
	{-70, 61},
}

// SelectBand returns the band index [0,2] containing freqMHz, or false if
// freqMHz falls outside all three bands.
func SelectBand(freqMHz float64) (int, bool) {
	for i, b := range bands {
		if freqMHz >= b.loMHz && freqMHz <= b.hiMHz {
			return i, true
		}
	}
	return 0, false
}

// CenterBWToStartStop converts a center frequency and bandwidth (both MHz)
// to start/stop frequencies (MHz).
func CenterBWToStartStop(centerMHz, bwMHz float64) (fStartMHz, fStopMHz float64) {
	half := bwMHz / 2
	return centerMHz - half, centerMHz + half
}

// NewRfSettings validates fStartHz/fStopHz/fStepHz/rbwHz against the band
// they fall in and returns a validated RfSettings, or an
// *InvalidArgumentError describing the first violated invariant.
func NewRfSettings(fStartHz, fStopHz, fStepHz, rbwHz float64, refLvlIndex int) (RfSettings, error) {
	if fStartHz >= fStopHz {
		return RfSettings{}, &InvalidArgumentError{Reason: "f_start must be less than f_stop"}
	}
	if refLvlIndex < 0 || refLvlIndex > 7 {
		return RfSettings{}, &InvalidArgumentError{Reason: "reference level index out of range"}
	}

	startMHz := fStartHz / 1e6
	stopMHz := fStopHz / 1e6
	bwMHz := stopMHz - startMHz

	startIdx, ok := SelectBand(startMHz)
	if !ok {
		return RfSettings{}, &InvalidArgumentError{Reason: "f_start out of band"}
	}
	stopIdx, ok := SelectBand(stopMHz)
	if !ok || stopIdx != startIdx {
		return RfSettings{}, &InvalidArgumentError{Reason: "f_stop not within f_start's band"}
	}

	b := bands[startIdx]
	if bwMHz < b.bwMinMHz || bwMHz > b.bwMaxMHz {
		return RfSettings{}, &InvalidArgumentError{Reason: "bandwidth outside band limits"}
	}
	if rbwHz < 2*fStepHz {
		return RfSettings{}, &InvalidArgumentError{Reason: "rbw must be at least twice f_step"}
	}

	return RfSettings{
		RangeIndex:  startIdx,
		FStartHz:    fStartHz,
		FStopHz:     fStopHz,
		FStepHz:     fStepHz,
		RbwIndex:    0,
		RefLvlIndex: refLvlIndex,
	}, nil
}

// CompensateFreq applies crystal-deviation compensation to a target
// frequency in MHz, returning the 24-bit register value the device
// expects. If cal is nil, the default 26.0 MHz crystal frequency is used.
func CompensateFreq(freqMHz float64, cal *CalibrationImage) uint32 {
	xtal := defaultXtalFreqMHz
	if cal != nil {
		xtal = cal.XtalFreqMHz()
	}
	compensated := math.Floor(freqMHz * 65536 / xtal)
	return uint32(compensated) & 0x00FFFFFF
}

// CompensateStep applies the same crystal compensation to a step frequency,
// returning the register value truncated to 16 bits for SET_F_STEP.
func CompensateStep(stepMHz float64, cal *CalibrationImage) uint16 {
	return uint16(CompensateFreq(stepMHz, cal) & 0xFFFF)
}

const (
	minRbwStep = 0.1
	maxRbwStep = 0.5
)

// EasyRfResult is the outcome of the Easy-RF RBW/FSW resolver: the
// (possibly clamped) FSW, the chosen RBW in MHz, and its table index.
type EasyRfResult struct {
	FswMHz   float64
	RbwMHz   float64
	RbwIndex int
}

// ResolveEasyRf selects (FSW_adjusted, RBW, rbw_index) for a requested FSW
// in MHz, per §4.8: scan Table 7 for the first RBW ≥ fsw*MIN_RBW_STEP, then
// clamp fsw down if it would violate RBW ≥ 2*FSW after the pick.
func ResolveEasyRf(fswMHz float64) EasyRfResult {
	rbwTargetMHz := fswMHz * minRbwStep

	idx := len(rbwTable) - 1
	for i, entry := range rbwTable {
		if entry.khz/1000.0 >= rbwTargetMHz {
			idx = i
			break
		}
	}

	rbwMHz := rbwTable[idx].khz / 1000.0
	adjusted := fswMHz
	if adjusted > rbwMHz*maxRbwStep {
		adjusted = rbwMHz * maxRbwStep
	}

	return EasyRfResult{FswMHz: adjusted, RbwMHz: rbwMHz, RbwIndex: idx}
}

// RbwRegisters returns the RBW and IF register bytes for a resolved table
// index, used to build the SET_RBW/SET_IF requests.
func RbwRegisters(rbwIndex int) (rbwReg, ifReg byte) {
	e := rbwTable[rbwIndex]
	return e.regValue, e.regValueIf
}

// EncodeRefLevel looks up the gain register byte for a target dBm
// reference level. It returns false if dbm is not one of the eight
// supported literal values.
func EncodeRefLevel(dbm int) (gain byte, ok bool) {
	for _, e := range refLevelTable {
		if e.dbm == dbm {
			return e.gain, true
		}
	}
	return 0, false
}
