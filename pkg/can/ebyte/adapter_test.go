package ebyte

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hil.go/pkg/can"
)

func TestFrameCodec(t *testing.T) {
	testCases := []struct {
		name  string
		frame can.Frame
		raw   []byte
	}{
		{
			"std",
			can.Frame{ID: 0x123, Len: 2, Data: [8]byte{0xaa, 0xbb}},
			[]byte{0x02, 0, 0, 0x01, 0x23, 0xaa, 0xbb, 0, 0, 0, 0, 0, 0},
		},
		{
			"ext",
			can.Frame{ID: 0x12345678, Extended: true, Len: 8, Data: [8]byte{1, 2, 3, 4, 5, 6, 7, 8}},
			[]byte{0x88, 0x12, 0x34, 0x56, 0x78, 1, 2, 3, 4, 5, 6, 7, 8},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := AppendFrame(nil, tc.frame)
			require.NoError(t, err)
			require.Equal(t, tc.raw, raw)
			f, err := ParseFrame(raw)
			require.NoError(t, err)
			require.Equal(t, tc.frame, f)
		})
	}

	_, err := ParseFrame(make([]byte, 12))
	require.Error(t, err)
	_, err = ParseFrame([]byte{0x40, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0})
	require.Equal(t, ErrRemoteFrame, err)
	_, err = AppendFrame(nil, can.Frame{ID: 0x800})
	require.Equal(t, can.ErrInvalidID, err)
}

func TestAdapter(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a := NewAdapter(ln.Addr().String(), 4)
	a.ReconnectDelay = 10 * time.Millisecond
	require.False(t, a.TrySend(can.Frame{ID: 1}))

	wakeCh := make(chan struct{}, 4)
	a.SetWakeFunc(func() { wakeCh <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
	}()

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	ext := can.Frame{ID: 0x1abcdef0, Extended: true, Len: 1, Data: [8]byte{9}}
	raw, err := AppendFrame(nil, ext)
	require.NoError(t, err)
	// split across writes to exercise reassembly
	_, err = conn.Write(raw[:5])
	require.NoError(t, err)
	_, err = conn.Write(raw[5:])
	require.NoError(t, err)

	select {
	case <-wakeCh:
	case <-time.After(time.Second):
		t.Fatal("wake timeout")
	}
	f, ok := a.TryReceive()
	require.True(t, ok)
	require.Equal(t, ext, f)
	_, ok = a.TryReceive()
	require.False(t, ok)

	require.Eventually(t, func() bool {
		return a.TrySend(can.Frame{ID: 0x321, Len: 1, Data: [8]byte{7}})
	}, time.Second, 5*time.Millisecond)
	sent := make([]byte, FrameSize)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, err = io.ReadFull(conn, sent)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0, 0, 0x03, 0x21, 7, 0, 0, 0, 0, 0, 0, 0}, sent)

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("stop timeout")
	}
}
