package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/robotalks/hil.go/pkg/bench"
	"github.com/robotalks/hil.go/pkg/periph/sim"
)

const mqttURLEnv = "HIL_MQTT_URL"

type daemonConfig struct {
	Name        string
	Host        string
	Baud        int
	BusA        string
	BusB        string
	BusQueue    int
	MQTTURL     string
	MirrorQueue int

	Bench bench.Config
	Board sim.Config
}

var runOpts = daemonConfig{
	Name:     "hil",
	Host:     "tcp://:7000",
	BusA:     "loopback",
	BusB:     "loopback",
	MQTTURL:  os.Getenv(mqttURLEnv),
	BusQueue: 64,
}

func newDaemonConfig() daemonConfig {
	conf := runOpts
	conf.Bench = *bench.Default()
	conf.Board = *sim.Default()
	return conf
}

type fileConfig struct {
	Name         string `toml:"name"`
	Host         string `toml:"host"`
	Baud         int    `toml:"baud"`
	BusA         string `toml:"bus_a"`
	BusB         string `toml:"bus_b"`
	BusQueue     int    `toml:"bus_queue"`
	MQTT         string `toml:"mqtt"`
	MirrorQueue  int    `toml:"mirror_queue"`
	FrameTimeout string `toml:"frame_timeout"`
	IdleInterval string `toml:"idle_interval"`
	Board        struct {
		ID      uint8 `toml:"id"`
		Pins    int   `toml:"pins"`
		Analogs int   `toml:"analogs"`
		Outputs int   `toml:"outputs"`
		Loads   int   `toml:"loads"`
	} `toml:"board"`
}

// overlayFile applies the keys defined in the TOML file at path.
// A key is skipped when its command line flag was set explicitly.
func (c *daemonConfig) overlayFile(path string, flagChanged func(string) bool) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}
	use := func(flagName string, key ...string) bool {
		return meta.IsDefined(key...) && !flagChanged(flagName)
	}

	if use("name", "name") {
		c.Name = strings.TrimSpace(raw.Name)
	}
	if use("host", "host") {
		c.Host = strings.TrimSpace(raw.Host)
	}
	if use("baud", "baud") {
		c.Baud = raw.Baud
	}
	if use("bus-a", "bus_a") {
		c.BusA = strings.TrimSpace(raw.BusA)
	}
	if use("bus-b", "bus_b") {
		c.BusB = strings.TrimSpace(raw.BusB)
	}
	if use("bus-queue", "bus_queue") {
		c.BusQueue = raw.BusQueue
	}
	if use("mqtt", "mqtt") {
		c.MQTTURL = strings.TrimSpace(raw.MQTT)
	}
	if use("mirror-queue", "mirror_queue") {
		c.MirrorQueue = raw.MirrorQueue
	}
	if use("frame-timeout", "frame_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.FrameTimeout))
		if err != nil {
			return fmt.Errorf("parse frame_timeout: %w", err)
		}
		c.Bench.FrameTimeout = d
	}
	if use("idle-interval", "idle_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.IdleInterval))
		if err != nil {
			return fmt.Errorf("parse idle_interval: %w", err)
		}
		c.Bench.IdleInterval = d
	}
	if use("id", "board", "id") {
		c.Board.Identity = raw.Board.ID
	}
	if use("pins", "board", "pins") {
		c.Board.Pins = raw.Board.Pins
	}
	if use("analogs", "board", "analogs") {
		c.Board.Analogs = raw.Board.Analogs
	}
	if use("outputs", "board", "outputs") {
		c.Board.Outputs = raw.Board.Outputs
	}
	if use("loads", "board", "loads") {
		c.Board.Loads = raw.Board.Loads
	}
	return nil
}

func (c *daemonConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if c.Board.Pins < 0 || c.Board.Pins > 256 {
		return fmt.Errorf("pins out of range: %d", c.Board.Pins)
	}
	if c.Board.Analogs < 0 || c.Board.Analogs > 256 {
		return fmt.Errorf("analogs out of range: %d", c.Board.Analogs)
	}
	if c.Board.Outputs < 0 || c.Board.Outputs > 256 {
		return fmt.Errorf("outputs out of range: %d", c.Board.Outputs)
	}
	if c.Board.Loads < 0 || c.Board.Loads > 256 {
		return fmt.Errorf("loads out of range: %d", c.Board.Loads)
	}
	return nil
}
