package protocol

import (
	"bytes"
	"fmt"

	"github.com/DKrepsky/sa430/internal/wire"
)

// EncodeFlashRead builds the FLASH_READ request payload: address then size,
// both big-endian u16.
func EncodeFlashRead(addr, size uint16) []byte {
	return wire.NewWriter().U16(addr).U16(size).Bytes()
}

// EncodeSetFreq builds a 3-byte big-endian payload from a 24-bit
// crystal-compensated frequency register value, as used by SET_F_START and
// SET_F_STOP.
func EncodeSetFreq(compensated uint32) []byte {
	v := compensated & 0x00FFFFFF
	return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

// EncodeSetFStep builds the 2-byte big-endian payload for SET_F_STEP.
func EncodeSetFStep(compensated uint16) []byte {
	return wire.NewWriter().U16(compensated).Bytes()
}

// EncodeU8 builds a single-byte payload, used by SET_RBW, SET_IF, and
// SET_GAIN.
func EncodeU8(v uint8) []byte {
	return []byte{v}
}

// DecodeIdn decodes the GET_IDN response payload as a NUL-terminated ASCII
// string.
func DecodeIdn(data []byte) (string, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	r := wire.NewReader(data)
	return r.ASCII(len(data))
}

// DecodeU32 decodes a big-endian u32 response payload (GET_HW_SER_NR).
func DecodeU32(data []byte) (uint32, error) {
	r := wire.NewReader(data)
	v, err := r.U32()
	if err != nil {
		return 0, fmt.Errorf("protocol: decoding u32 response: %w", err)
	}
	return v, nil
}

// DecodeU16 decodes a big-endian u16 response payload (GET_CORE_VER,
// GET_SPEC_VER).
func DecodeU16(data []byte) (uint16, error) {
	r := wire.NewReader(data)
	v, err := r.U16()
	if err != nil {
		return 0, fmt.Errorf("protocol: decoding u16 response: %w", err)
	}
	return v, nil
}
