package bench

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/robotalks/hil.go/pkg/can"
	fx "github.com/robotalks/hil.go/pkg/framework"
	"github.com/robotalks/hil.go/pkg/periph"
)

// Config defines the configurations for the engine.
type Config struct {
	// FrameTimeout discards a partially received frame when the host stays
	// silent for this long. Zero waits forever.
	FrameTimeout time.Duration
	// IdleInterval is how long the loop sleeps when no source has work and
	// nothing wakes it up.
	IdleInterval time.Duration
}

var defaultConfig = Config{
	IdleInterval: fx.DefaultInterval,
}

// SetupFlags sets command line flags.
func SetupFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&defaultConfig.FrameTimeout, "frame-timeout", defaultConfig.FrameTimeout, "Drop a partial host frame after this idle time, 0 to wait forever.")
	fs.DurationVar(&defaultConfig.IdleInterval, "idle-interval", defaultConfig.IdleInterval, "Loop sleep when idle.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEngine creates an engine using the config.
func (c *Config) NewEngine(board periph.Board, host HostPort, busA, busB can.Transceiver) *Engine {
	return NewEngine(*c, board, host, busA, busB)
}
