package comm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReply(t *testing.T) {
	testCases := []struct {
		name   string
		reply  Reply
		expect []byte
	}{
		{"identity", IdentityReply(2), []byte{0, 2}},
		{"pin high", PinReply(true), []byte{3, 1}},
		{"pin low", PinReply(false), []byte{3, 0}},
		{"analog", AnalogReply(0x0abc), []byte{6, 0x0a, 0xbc}},
		{"analog max", AnalogReply(4095), []byte{6, 0x0f, 0xff}},
		{"analog clamped", AnalogReply(0xffff), []byte{6, 0x0f, 0xff}},
		{"relay", RelayReply(BusB, 0x12345678, []byte{1, 2, 3}), []byte{9, 1, 0x12, 0x34, 0x56, 0x78, 3, 1, 2, 3}},
		{"relay empty", RelayReply(BusA, 0x100, nil), []byte{9, 0, 0, 0, 1, 0, 0}},
		{
			"relay truncated",
			RelayReply(BusA, 1, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}),
			[]byte{9, 0, 0, 0, 0, 1, 8, 1, 2, 3, 4, 5, 6, 7, 8},
		},
		{"error", ErrorReply(WriteDAC), []byte{10, 4}},
		{"command error", (&CommandError{Code: 0xaa}).Reply(), []byte{10, 0xaa}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, Reply(tc.expect), tc.reply)
			var buf bytes.Buffer
			n, err := tc.reply.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, buf.Bytes())
			require.Equal(t, int64(len(tc.expect)), n)
		})
	}
}

func TestOpcodeString(t *testing.T) {
	require.Equal(t, "SEND_CAN", SendCAN.String())
	require.Equal(t, "OPCODE(200)", Opcode(200).String())
	require.Equal(t, "command error WRITE_DAC", (&CommandError{Code: WriteDAC}).Error())
}
