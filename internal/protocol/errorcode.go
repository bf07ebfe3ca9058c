package protocol

import "fmt"

// ErrorCode is the SA430's u16 status/error code, returned in the payload
// of a GET_LAST_ERROR frame. ErrNoError is the distinguished success
// sentinel used to terminate a measurement sweep.
type ErrorCode uint16

// Error codes from Appendix B of the SA430 protocol.
const (
	ErrNoError                          ErrorCode = 0x0000
	ErrCmdBufferOverflow                ErrorCode = 0x0320
	ErrWrongCmdLength                   ErrorCode = 0x0321
	ErrCmdAborted                       ErrorCode = 0x0322
	ErrLostCmd                          ErrorCode = 0x0323
	ErrCmdUnknown                       ErrorCode = 0x0324
	ErrTooMuchDataRequestedByUserFn     ErrorCode = 0x0325
	ErrRestoreProgramCounter            ErrorCode = 0x0326
	ErrBufferPosOutOfRange              ErrorCode = 0x0327
	ErrEeqBufferOverflow                ErrorCode = 0x0328
	ErrWrongCrcLowByte                  ErrorCode = 0x0329
	ErrWrongCrcHighByte                 ErrorCode = 0x032A
	ErrRestoreFromPacketError           ErrorCode = 0x032C
	ErrNoFrameStart                     ErrorCode = 0x032D
	ErrWrongPktLength                   ErrorCode = 0x032E
	ErrPacketIncomplete                 ErrorCode = 0x032F
	ErrPacketError                      ErrorCode = 0x0330
	ErrStupidPacketHandler              ErrorCode = 0x0331
	ErrBufferOverflow                   ErrorCode = 0x0352
	ErrBufferUnderrun                   ErrorCode = 0x0353
	ErrFlashNotErased                   ErrorCode = 0x044C
	ErrFlashMismatch                    ErrorCode = 0x044D
	ErrRssiValidFlagNotSet              ErrorCode = 0x04B0
	ErrPllNotSettled                    ErrorCode = 0x04B1
	ErrUnknown                          ErrorCode = 0xFFFF
)

var errorCodeDescriptions = map[ErrorCode]string{
	ErrNoError:                      "OK",
	ErrCmdBufferOverflow:            "command buffer overflow",
	ErrWrongCmdLength:               "wrong command length",
	ErrCmdAborted:                   "command aborted",
	ErrLostCmd:                      "lost command",
	ErrCmdUnknown:                   "unknown command",
	ErrTooMuchDataRequestedByUserFn: "too much data requested by user function",
	ErrRestoreProgramCounter:        "restore program counter",
	ErrBufferPosOutOfRange:          "buffer position out of range",
	ErrEeqBufferOverflow:            "EEQ buffer overflow",
	ErrWrongCrcLowByte:              "wrong CRC low byte",
	ErrWrongCrcHighByte:             "wrong CRC high byte",
	ErrRestoreFromPacketError:       "restore from packet error",
	ErrNoFrameStart:                 "no frame start",
	ErrWrongPktLength:               "wrong packet length",
	ErrPacketIncomplete:             "packet incomplete",
	ErrPacketError:                  "packet error",
	ErrStupidPacketHandler:          "stupid packet handler",
	ErrBufferOverflow:               "buffer overflow",
	ErrBufferUnderrun:               "buffer underrun",
	ErrFlashNotErased:               "flash not erased",
	ErrFlashMismatch:                "flash mismatch",
	ErrRssiValidFlagNotSet:          "RSSI valid flag not set",
	ErrPllNotSettled:                "PLL not settled",
	ErrUnknown:                      "unknown error",
}

// ErrorCodeFromBytes decodes a big-endian 2-byte error code payload. A code
// absent from Appendix B's table is still returned as its literal wire
// value rather than collapsed to ErrUnknown, so callers and logs retain the
// value the device actually sent; String() falls back to
// "unknown error (0x%04X)" for any such code.
func ErrorCodeFromBytes(data []byte) ErrorCode {
	if len(data) != 2 {
		return ErrUnknown
	}
	return ErrorCode(uint16(data[0])<<8 | uint16(data[1]))
}

// String returns a human-readable description of the error code.
func (e ErrorCode) String() string {
	if desc, ok := errorCodeDescriptions[e]; ok {
		return desc
	}
	return fmt.Sprintf("unknown error (0x%04X)", uint16(e))
}
