package comm

import (
	"encoding/binary"
	"io"
)

// MaxAnalog is the largest value reported by ReadADC.
const MaxAnalog = 4095

// Reply is a device-originated frame.
type Reply []byte

// IdentityReply encodes the reply of ReadID.
func IdentityReply(id byte) Reply {
	return Reply{byte(ReadID), id}
}

// PinReply encodes the reply of ReadGPIO.
func PinReply(level bool) Reply {
	r := Reply{byte(ReadGPIO), 0}
	if level {
		r[1] = 1
	}
	return r
}

// AnalogReply encodes the reply of ReadADC, high byte first.
// Values above MaxAnalog are clamped.
func AnalogReply(value uint16) Reply {
	if value > MaxAnalog {
		value = MaxAnalog
	}
	r := Reply{byte(ReadADC), 0, 0}
	binary.BigEndian.PutUint16(r[1:], value)
	return r
}

// RelayReply encodes an unsolicited RecvCAN frame. Payload beyond MaxPayload
// is truncated.
func RelayReply(bus byte, id uint32, payload []byte) Reply {
	if len(payload) > MaxPayload {
		payload = payload[:MaxPayload]
	}
	r := make(Reply, 7+len(payload))
	r[0], r[1] = byte(RecvCAN), bus
	binary.BigEndian.PutUint32(r[2:6], id)
	r[6] = byte(len(payload))
	copy(r[7:], payload)
	return r
}

// ErrorReply encodes the Error frame naming the refused opcode.
func ErrorReply(op Opcode) Reply {
	return Reply{byte(Error), byte(op)}
}

// WriteTo writes the encoded bytes.
func (r Reply) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r)
	return int64(n), err
}
