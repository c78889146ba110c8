package comm

import "fmt"

// Opcode is the leading byte of a frame.
type Opcode byte

// Opcodes understood by the firmware. Values are part of the protocol.
const (
	ReadID    Opcode = 0  // [op] -> [op, id]
	WriteGPIO Opcode = 1  // [op, pin, value] -> []
	HiZGPIO   Opcode = 2  // [op, pin] -> []
	ReadGPIO  Opcode = 3  // [op, pin] -> [op, value]
	WriteDAC  Opcode = 4  // [op, channel, value] -> []
	HiZDAC    Opcode = 5  // [op, channel] -> []
	ReadADC   Opcode = 6  // [op, pin] -> [op, high, low]
	WritePot  Opcode = 7  // [op, channel, value] -> []
	SendCAN   Opcode = 8  // [op, bus, id3, id2, id1, id0, len, d0..d7] -> []
	RecvCAN   Opcode = 9  // device only: [op, bus, id3, id2, id1, id0, len, payload...]
	Error     Opcode = 10 // device only: [op, opcode]
)

// Bus identifiers used in SendCAN and RecvCAN frames.
const (
	BusA byte = 0
	BusB byte = 1
)

// MaxPayload is the maximum payload of a bus frame.
const MaxPayload = 8

// sendCANLen is opcode, bus, 4 identifier bytes, length and 8 payload slots.
const sendCANLen = 1 + 1 + 4 + 1 + MaxPayload

// frameLens is indexed by opcode. Zero means the opcode never arrives from the
// host and the byte is treated as a one-byte frame.
var frameLens = [...]int{
	ReadID:    1,
	WriteGPIO: 3,
	HiZGPIO:   2,
	ReadGPIO:  2,
	WriteDAC:  3,
	HiZDAC:    2,
	ReadADC:   2,
	WritePot:  3,
	SendCAN:   sendCANLen,
}

// MaxFrameLen is the capacity needed to assemble any host frame.
const MaxFrameLen = sendCANLen

// FrameLen returns the total length of a host frame starting with op.
// The second return value is false if op is not a host command.
func FrameLen(op Opcode) (int, bool) {
	if int(op) < len(frameLens) {
		if l := frameLens[op]; l > 0 {
			return l, true
		}
	}
	return 1, false
}

var opcodeNames = map[Opcode]string{
	ReadID:    "READ_ID",
	WriteGPIO: "WRITE_GPIO",
	HiZGPIO:   "HIZ_GPIO",
	ReadGPIO:  "READ_GPIO",
	WriteDAC:  "WRITE_DAC",
	HiZDAC:    "HIZ_DAC",
	ReadADC:   "READ_ADC",
	WritePot:  "WRITE_POT",
	SendCAN:   "SEND_CAN",
	RecvCAN:   "RECV_CAN",
	Error:     "ERROR",
}

// String implements fmt.Stringer.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OPCODE(%d)", byte(op))
}
