package can

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameValidate(t *testing.T) {
	testCases := []struct {
		name  string
		frame Frame
		err   error
	}{
		{"std", Frame{ID: 0x7ff}, nil},
		{"std too wide", Frame{ID: 0x800}, ErrInvalidID},
		{"ext", Frame{ID: 0x1fffffff, Extended: true}, nil},
		{"ext too wide", Frame{ID: 0x20000000, Extended: true}, ErrInvalidID},
		{"too long", Frame{Len: 9}, ErrInvalidLen},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.err, tc.frame.Validate())
		})
	}

	f, err := NewFrame(0x12345678, []byte{1, 2, 3})
	require.NoError(t, err)
	require.True(t, f.Extended)
	require.Equal(t, []byte{1, 2, 3}, f.Payload())
	_, err = NewFrame(1, make([]byte, 9))
	require.Equal(t, ErrInvalidLen, err)
}

func TestSLCAN(t *testing.T) {
	testCases := []struct {
		name  string
		frame Frame
		text  string
	}{
		{"std empty", Frame{ID: 0x123}, "t1230"},
		{"std data", Frame{ID: 0x7a, Len: 2, Data: [8]byte{0xde, 0xad}}, "t07A2DEAD"},
		{"ext data", Frame{ID: 0x12345678, Extended: true, Len: 3, Data: [8]byte{1, 2, 3}}, "T123456783010203"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.text, EncodeSLCAN(tc.frame))
			f, err := ParseSLCAN(tc.text + "\r")
			require.NoError(t, err)
			require.Equal(t, tc.frame, f)
		})
	}

	for _, bad := range []string{"", "x123", "t12", "t1239", "t1232AA", "T123456781ZZ", "tXYZ0"} {
		_, err := ParseSLCAN(bad)
		require.Errorf(t, err, "%q", bad)
	}
}

func TestLoopback(t *testing.T) {
	l := NewLoopback(2)
	var wakes int
	l.SetWakeFunc(func() { wakes++ })

	_, ok := l.TryReceive()
	require.False(t, ok)

	require.True(t, l.Inject(Frame{ID: 1}))
	require.True(t, l.Inject(Frame{ID: 2}))
	require.False(t, l.Inject(Frame{ID: 3}))
	require.Equal(t, 2, wakes)
	require.Equal(t, 2, l.Pending())

	f, ok := l.TryReceive()
	require.True(t, ok)
	require.Equal(t, uint32(1), f.ID)

	require.True(t, l.TrySend(Frame{ID: 9}))
	require.Equal(t, []Frame{{ID: 9}}, l.Sent())
	require.Empty(t, l.Sent())
}
