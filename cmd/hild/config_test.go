package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hil.go/pkg/can"
	"github.com/robotalks/hil.go/pkg/can/ebyte"
	"github.com/robotalks/hil.go/pkg/l0/link"
)

func writeConfig(t *testing.T, content string) string {
	fn := filepath.Join(t.TempDir(), "hild.toml")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0644))
	return fn
}

func noFlags(string) bool { return false }

func TestOverlayFile(t *testing.T) {
	fn := writeConfig(t, `
name = "bench7"
host = "ws://:7001/host"
bus_b = "ebyte://10.0.0.7:8881"
frame_timeout = "20ms"

[board]
id = 7
outputs = 4
`)
	conf := newDaemonConfig()
	conf.BusA = "none"
	require.NoError(t, conf.overlayFile(fn, func(name string) bool { return name == "host" }))
	require.Equal(t, "bench7", conf.Name)
	require.Equal(t, runOpts.Host, conf.Host)
	require.Equal(t, "none", conf.BusA)
	require.Equal(t, "ebyte://10.0.0.7:8881", conf.BusB)
	require.Equal(t, 20*time.Millisecond, conf.Bench.FrameTimeout)
	require.Equal(t, byte(7), conf.Board.Identity)
	require.Equal(t, 4, conf.Board.Outputs)
	require.Equal(t, 64, conf.Board.Pins)
	require.NoError(t, conf.validate())
}

func TestOverlayFileErrors(t *testing.T) {
	conf := newDaemonConfig()
	require.Error(t, conf.overlayFile(writeConfig(t, `frame_timeout = "soon"`), noFlags))
	require.Error(t, conf.overlayFile(writeConfig(t, `colour = "blue"`), noFlags))
	require.Error(t, conf.overlayFile(filepath.Join(t.TempDir(), "missing.toml"), noFlags))

	conf = newDaemonConfig()
	require.NoError(t, conf.overlayFile(writeConfig(t, "[board]\npins = 300\n"), noFlags))
	require.Error(t, conf.validate())
}

func TestOpenBus(t *testing.T) {
	bus, err := openBus("loopback", 4)
	require.NoError(t, err)
	require.Equal(t, "loopback", bus.kind)
	require.IsType(t, &can.Loopback{}, bus.tr)
	require.NotNil(t, bus.loopback)

	bus, err = openBus("none", 4)
	require.NoError(t, err)
	require.Nil(t, bus.tr)

	bus, err = openBus("ebyte://127.0.0.1:8881", 4)
	require.NoError(t, err)
	require.Equal(t, "ebyte", bus.kind)
	require.IsType(t, &ebyte.Adapter{}, bus.tr)
	require.NotNil(t, bus.runner)

	_, err = openBus("ebyte://", 4)
	require.Error(t, err)
	_, err = openBus("carrier-pigeon://coop", 4)
	require.Error(t, err)
}

func TestOpenHost(t *testing.T) {
	host, err := openHost("tcp://127.0.0.1:0", 0)
	require.NoError(t, err)
	require.IsType(t, &link.TCPServer{}, host.rw)
	require.NotNil(t, host.runner)
	host.rw.(*link.TCPServer).Close()

	host, err = openHost("ws://127.0.0.1:0/bench", 0)
	require.NoError(t, err)
	require.IsType(t, &link.WebSocketServer{}, host.rw)
	host.rw.(*link.WebSocketServer).Close()

	_, err = openHost("udp://127.0.0.1:0", 0)
	require.Error(t, err)
}
