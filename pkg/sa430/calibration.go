package sa430

import (
	"github.com/DKrepsky/sa430/internal/protocol"
	"github.com/DKrepsky/sa430/internal/wire"
)

const (
	calFlashAddr uint16 = 0xD400
	calMemType   uint16 = 0x003E
	calTypeVersion uint16 = 0x0002
	// calHeaderLen is the size of the fixed header preceding CalData:
	// mem_start_addr, mem_length, mem_type, type_version, crc16 (5 u16
	// fields).
	calHeaderLen = 10
	// calBodyLen is the encoded size of CalData: every field in its
	// documented layout sums to exactly this many bytes.
	calBodyLen = 1671
	// calFlashLen is the total size of one flash calibration read: header
	// plus body.
	calFlashLen       uint16 = calHeaderLen + calBodyLen
	calHeaderBodyOffs        = calHeaderLen // header fields before the CRC-covered body begins
)

// FrequencyRange is one of the SA430's three selectable RF bands.
type FrequencyRange struct {
	FStart   uint32
	FStop    uint32
	FSamples uint32
}

// RefLevelEntry maps one reference-level table slot to its dBm value and
// gain register byte, as stored in the flash calibration image.
type RefLevelEntry struct {
	ValueDbm int8
	Gain     uint8
}

// FrequencyGain is one (range, reference-level) cell of the calibration's
// 3x8 gain-coefficient matrix: a DC-select byte and the eight polynomial
// coefficients used by the sample-correction math.
type FrequencyGain struct {
	DcSelect uint8
	Values   [8]float64
}

// CalData is the body of the SA430's flash calibration image (§3, §4.7).
type CalData struct {
	FormatVersion   uint16
	CalDate         string
	SwVersion       uint16
	ProdSide        uint8
	FrqRange        [3]FrequencyRange
	RefLvlTable     [8]RefLevelEntry
	HardwareID      uint32
	SerialNumber    string
	XtalFreqHz      uint32
	XtalFreqPpm     uint16
	CalTempStart    [6]uint8
	CalTempStop     [6]uint8
	FreqGainCoeffs  [3][8]FrequencyGain
}

// CalibrationImage is the full flash image: header plus CalData body. It is
// loaded once per device session and treated as immutable thereafter.
type CalibrationImage struct {
	MemStartAddr uint16
	MemLength    uint16
	MemType      uint16
	TypeVersion  uint16
	Crc16        uint16
	Data         CalData
}

// XtalFreqMHz returns the calibrated crystal frequency in MHz.
func (c *CalibrationImage) XtalFreqMHz() float64 {
	return float64(c.Data.XtalFreqHz) / 1e6
}

// RefLevel returns the dBm value and gain register byte for reference-level
// index i.
func (c *CalibrationImage) RefLevel(i int) RefLevelEntry {
	return c.Data.RefLvlTable[i]
}

// GainCoefficients returns the DC-select byte and polynomial coefficients
// for the given range and reference-level index.
func (c *CalibrationImage) GainCoefficients(rangeIndex, refLevelIndex int) FrequencyGain {
	return c.Data.FreqGainCoeffs[rangeIndex][refLevelIndex]
}

// ParseCalibrationImage validates and decodes a raw 1681-byte flash image
// (10-byte header plus 1671-byte CalData body) read from address 0xD400.
// Every multi-byte field, including the eight-byte floating point gain
// coefficients, is big-endian.
func ParseCalibrationImage(raw []byte) (*CalibrationImage, error) {
	if len(raw) != int(calFlashLen) {
		return nil, &CalibrationInvalidError{Reason: "unexpected flash image length"}
	}

	r := wire.NewReader(raw)

	memStart, _ := r.U16()
	memLength, _ := r.U16()
	memType, _ := r.U16()
	typeVersion, _ := r.U16()
	storedCrc, _ := r.U16()

	if memStart != calFlashAddr {
		return nil, &CalibrationInvalidError{Reason: "mem_start_addr mismatch"}
	}
	if memType != calMemType {
		return nil, &CalibrationInvalidError{Reason: "mem_type mismatch"}
	}
	if typeVersion != calTypeVersion {
		return nil, &CalibrationInvalidError{Reason: "type_version mismatch"}
	}

	// The device's documented CRC coverage is the body starting at 0xD40A
	// (offset calHeaderBodyOffs), i.e. everything after the header's own
	// crc16 field. See spec.md §9 Open Questions: the coverage of the
	// header's own crc16 field is not fully documented upstream.
	computed := protocol.Crc16(raw[calHeaderBodyOffs:])
	if storedCrc != computed {
		return nil, &CalibrationInvalidError{Reason: "crc16 mismatch"}
	}

	data, err := parseCalData(r)
	if err != nil {
		return nil, err
	}

	return &CalibrationImage{
		MemStartAddr: memStart,
		MemLength:    memLength,
		MemType:      memType,
		TypeVersion:  typeVersion,
		Crc16:        storedCrc,
		Data:         data,
	}, nil
}

func parseCalData(r *wire.Reader) (CalData, error) {
	var d CalData
	var err error

	if d.FormatVersion, err = r.U16(); err != nil {
		return d, &CalibrationInvalidError{Reason: "truncated format_version"}
	}
	if d.CalDate, err = r.ASCII(16); err != nil {
		return d, &CalibrationInvalidError{Reason: "truncated cal_date"}
	}
	if d.SwVersion, err = r.U16(); err != nil {
		return d, &CalibrationInvalidError{Reason: "truncated sw_version"}
	}
	if b, err2 := r.U8(); err2 != nil {
		return d, &CalibrationInvalidError{Reason: "truncated prod_side"}
	} else {
		d.ProdSide = b
	}

	for i := range d.FrqRange {
		fs, e1 := r.U32()
		fe, e2 := r.U32()
		fn, e3 := r.U32()
		if e1 != nil || e2 != nil || e3 != nil {
			return d, &CalibrationInvalidError{Reason: "truncated frq_range"}
		}
		d.FrqRange[i] = FrequencyRange{FStart: fs, FStop: fe, FSamples: fn}
	}

	for i := range d.RefLvlTable {
		val, e1 := r.I8()
		gain, e2 := r.U8()
		if e1 != nil || e2 != nil {
			return d, &CalibrationInvalidError{Reason: "truncated ref_lvl_table"}
		}
		d.RefLvlTable[i] = RefLevelEntry{ValueDbm: val, Gain: gain}
	}

	if d.HardwareID, err = r.U32(); err != nil {
		return d, &CalibrationInvalidError{Reason: "truncated hardware_id"}
	}
	if d.SerialNumber, err = r.ASCII(16); err != nil {
		return d, &CalibrationInvalidError{Reason: "truncated serial_number"}
	}
	if d.XtalFreqHz, err = r.U32(); err != nil {
		return d, &CalibrationInvalidError{Reason: "truncated xtal_freq_hz"}
	}
	if d.XtalFreqPpm, err = r.U16(); err != nil {
		return d, &CalibrationInvalidError{Reason: "truncated xtal_freq_ppm"}
	}

	for i := range d.CalTempStart {
		b, e := r.U8()
		if e != nil {
			return d, &CalibrationInvalidError{Reason: "truncated cal_temp_start"}
		}
		d.CalTempStart[i] = b
	}
	for i := range d.CalTempStop {
		b, e := r.U8()
		if e != nil {
			return d, &CalibrationInvalidError{Reason: "truncated cal_temp_stop"}
		}
		d.CalTempStop[i] = b
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 8; j++ {
			dc, e := r.U8()
			if e != nil {
				return d, &CalibrationInvalidError{Reason: "truncated freq_gain_coeffs dc_select"}
			}
			var fg FrequencyGain
			fg.DcSelect = dc
			for k := 0; k < 8; k++ {
				v, e := r.F64()
				if e != nil {
					return d, &CalibrationInvalidError{Reason: "truncated freq_gain_coeffs value"}
				}
				fg.Values[k] = v
			}
			d.FreqGainCoeffs[i][j] = fg
		}
	}

	return d, nil
}
