package can

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// EncodeSLCAN converts a frame into the ASCII SLCAN form, e.g. "T123456783010203".
// The trailing carriage return is not included.
func EncodeSLCAN(f Frame) string {
	var builder strings.Builder
	if f.Extended {
		builder.WriteByte('T')
		builder.WriteString(fmt.Sprintf("%08X", f.ID&MaxExtID))
	} else {
		builder.WriteByte('t')
		builder.WriteString(fmt.Sprintf("%03X", f.ID&MaxStdID))
	}
	payload := f.Payload()
	builder.WriteByte('0' + byte(len(payload)))
	for _, b := range payload {
		builder.WriteString(fmt.Sprintf("%02X", b))
	}
	return builder.String()
}

// ParseSLCAN parses a frame in the ASCII SLCAN form.
func ParseSLCAN(s string) (Frame, error) {
	var f Frame
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return f, fmt.Errorf("slcan: empty frame")
	}
	idLen := 3
	switch s[0] {
	case 'T':
		f.Extended, idLen = true, 8
	case 't':
	default:
		return f, fmt.Errorf("slcan: unsupported frame type %q", s[0])
	}
	if len(s) < 1+idLen+1 {
		return f, fmt.Errorf("slcan: frame too short")
	}
	id, err := strconv.ParseUint(s[1:1+idLen], 16, 32)
	if err != nil {
		return f, fmt.Errorf("slcan: bad identifier: %w", err)
	}
	f.ID = uint32(id)
	dlc := s[1+idLen]
	if dlc < '0' || dlc > '8' {
		return f, ErrInvalidLen
	}
	f.Len = dlc - '0'
	data := s[2+idLen:]
	if len(data) != int(f.Len)*2 {
		return f, fmt.Errorf("slcan: expect %d data bytes", f.Len)
	}
	if _, err := hex.Decode(f.Data[:], []byte(data)); err != nil {
		return f, fmt.Errorf("slcan: bad data: %w", err)
	}
	return f, f.Validate()
}
