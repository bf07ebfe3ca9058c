package protocol

// Command is the SA430 wire command code. Unknown codes are preserved
// verbatim so newer firmware commands round-trip even when this package
// does not know their name.
type Command uint8

// Command codes from Appendix A of the SA430 protocol.
const (
	CmdGetIdn         Command = 0x01
	CmdGetHwSerNr     Command = 0x02
	CmdHwReset        Command = 0x03
	CmdBlinkLed       Command = 0x04
	CmdGetCoreVer     Command = 0x05
	CmdGetLastError   Command = 0x06
	CmdSync           Command = 0x07
	CmdFlashRead      Command = 0x0A
	CmdFlashWrite     Command = 0x0B
	CmdFlashErase     Command = 0x0C
	CmdFlashGetCrc    Command = 0x0D
	CmdGetSpecVer     Command = 0x14
	CmdSetFStart      Command = 0x15
	CmdSetFStop       Command = 0x16
	CmdSetFStep       Command = 0x17
	CmdSetFrq         Command = 0x18
	CmdSetRbw         Command = 0x19
	CmdSetDac         Command = 0x1A
	CmdSetGain        Command = 0x1B
	CmdSetIf          Command = 0x1C
	CmdInitParameter  Command = 0x1E
	CmdGetSpecNoInit  Command = 0x1F
	CmdGetProdVer     Command = 0x3C
	CmdSetProdFwInit  Command = 0x3D
	CmdGetTemp        Command = 0x3E
	CmdSetHwId        Command = 0x3F
	CmdGetHwId        Command = 0x40
	CmdGetBootCnt     Command = 0x41
	CmdSetFout        Command = 0x42
	CmdSetFxtal       Command = 0x43
	CmdGetFxtal       Command = 0x44
	CmdSweepEdc       Command = 0x45
	CmdGetChipTlv     Command = 0x49
	CmdFrameError     Command = 0xFF
)

var commandNames = map[Command]string{
	CmdGetIdn:        "GET_IDN",
	CmdGetHwSerNr:    "GET_HW_SER_NR",
	CmdHwReset:       "HW_RESET",
	CmdBlinkLed:      "BLINK_LED",
	CmdGetCoreVer:    "GET_CORE_VER",
	CmdGetLastError:  "GET_LAST_ERROR",
	CmdSync:          "SYNC",
	CmdFlashRead:     "FLASH_READ",
	CmdFlashWrite:    "FLASH_WRITE",
	CmdFlashErase:    "FLASH_ERASE",
	CmdFlashGetCrc:   "FLASH_GET_CRC",
	CmdGetSpecVer:    "GET_SPEC_VER",
	CmdSetFStart:     "SET_F_START",
	CmdSetFStop:      "SET_F_STOP",
	CmdSetFStep:      "SET_F_STEP",
	CmdSetFrq:        "SET_FRQ",
	CmdSetRbw:        "SET_RBW",
	CmdSetDac:        "SET_DAC",
	CmdSetGain:       "SET_GAIN",
	CmdSetIf:         "SET_IF",
	CmdInitParameter: "INIT_PARAMETER",
	CmdGetSpecNoInit: "GET_SPEC_NO_INIT",
	CmdGetProdVer:    "GET_PROD_VER",
	CmdSetProdFwInit: "SET_PROD_FW_INIT",
	CmdGetTemp:       "GET_TEMP",
	CmdSetHwId:       "SET_HW_ID",
	CmdGetHwId:       "GET_HW_ID",
	CmdGetBootCnt:    "GET_BOOT_CNT",
	CmdSetFout:       "SET_FOUT",
	CmdSetFxtal:      "SET_FXTAL",
	CmdGetFxtal:      "GET_FXTAL",
	CmdSweepEdc:      "SWEEP_EDC",
	CmdGetChipTlv:    "GET_CHIP_TLV",
	CmdFrameError:    "FRAME_ERROR",
}

// String returns the command's mnemonic, or a hex fallback for unknown codes.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "UNKNOWN(0x" + hexByte(uint8(c)) + ")"
}

func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xf]})
}
