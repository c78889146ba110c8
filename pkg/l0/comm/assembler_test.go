package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssemblerFraming(t *testing.T) {
	for op := 0; op < 256; op++ {
		l, known := FrameLen(Opcode(op))
		if !known {
			require.Equalf(t, 1, l, "opcode %d", op)
			continue
		}
		var a Assembler
		in := make([]byte, l)
		in[0] = byte(op)
		for i := 1; i < l; i++ {
			in[i] = byte(0x10 + i)
		}
		for i := 0; i < l-1; i++ {
			require.Nilf(t, a.Feed(in[i]), "opcode %s byte[%d]", Opcode(op), i)
		}
		require.Equalf(t, l-1, a.Pending(), "opcode %s pending", Opcode(op))
		frame := a.Feed(in[l-1])
		require.Equalf(t, Frame(in), frame, "opcode %s frame", Opcode(op))
		require.Zero(t, a.Pending())
	}
}

func TestAssemblerUnmappedOpcode(t *testing.T) {
	var a Assembler
	for _, b := range []byte{byte(RecvCAN), byte(Error), 11, 0x80, 0xff} {
		require.Equal(t, Frame{b}, a.Feed(b))
		require.Zero(t, a.Pending())
	}
}

func TestAssemblerBackToBack(t *testing.T) {
	var a Assembler
	var frames []Frame
	for _, b := range []byte{
		byte(ReadID),
		byte(WriteGPIO), 5, 1,
		byte(ReadADC), 2,
		0xee,
		byte(HiZDAC), 0,
	} {
		if f := a.Feed(b); f != nil {
			frames = append(frames, f)
		}
	}
	require.Equal(t, []Frame{
		{byte(ReadID)},
		{byte(WriteGPIO), 5, 1},
		{byte(ReadADC), 2},
		{0xee},
		{byte(HiZDAC), 0},
	}, frames)
}

func TestAssemblerTimeout(t *testing.T) {
	var a Assembler
	require.Nil(t, a.Feed(byte(WriteDAC)))
	require.Nil(t, a.Feed(1))
	require.Equal(t, 2, a.Timeout())
	require.Zero(t, a.Pending())
	require.Nil(t, a.Feed(byte(HiZGPIO)))
	require.Equal(t, Frame{byte(HiZGPIO), 3}, a.Feed(3))
}
