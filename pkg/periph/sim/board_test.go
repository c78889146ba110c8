package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardBanks(t *testing.T) {
	b := NewBoard(Config{Identity: 7, Pins: 2, Analogs: 1, Outputs: 3, Loads: 2})
	pb := b.Periph()
	require.Equal(t, byte(7), pb.Identity)
	require.Len(t, pb.Outputs, 3)
	require.Len(t, pb.Loads, 2)

	_, ok := pb.Pins.Pin(1)
	require.True(t, ok)
	_, ok = pb.Pins.Pin(2)
	require.False(t, ok)
	_, ok = pb.Analogs.Analog(0)
	require.True(t, ok)
	_, ok = pb.Analogs.Analog(1)
	require.False(t, ok)
	require.Nil(t, b.PinAt(-1))
	require.Nil(t, b.LoadAt(2))
}

func TestPin(t *testing.T) {
	b := NewBoard(Config{Pins: 1})
	pin := b.PinAt(0)
	pin.SetExternal(true)
	require.True(t, pin.Read())

	pin.ConfigureAsOutput()
	pin.Write(false)
	require.False(t, pin.Read())
	output, level := pin.State()
	require.True(t, output)
	require.False(t, level)

	pin.ConfigureAsInput()
	require.True(t, pin.Read())
}

func TestAnalogWiredToOutput(t *testing.T) {
	b := NewBoard(Config{Analogs: 2, Outputs: 1})
	b.Wire(1, 0)
	b.AnalogAt(0).Set(5000)
	require.Equal(t, uint16(4095), b.AnalogAt(0).Read())

	out := b.OutputAt(0)
	out.SetValue(255)
	require.Zero(t, b.AnalogAt(1).Read())
	out.Wake()
	require.Equal(t, uint16(4095), b.AnalogAt(1).Read())
	out.SetValue(51)
	require.Equal(t, uint16(819), b.AnalogAt(1).Read())
	out.PowerDown()
	require.Zero(t, b.AnalogAt(1).Read())
	require.Equal(t, OutputState{Value: 51, Wakes: 1, PowerDowns: 1}, out.State())
}
