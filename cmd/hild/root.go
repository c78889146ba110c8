package main

import (
	"flag"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hild",
	Short: "HIL bench firmware daemon",
	Long: `hild runs the HIL test bench firmware against a simulated board.

The host drives the bench over a serial port, a TCP socket or a websocket
using the binary command protocol. Frames received on bus A and bus B are
relayed to the host, and optionally mirrored to an MQTT broker.

Buses:
  loopback            in-memory bus, frames injected through MQTT
  ebyte://host:port   EByte CAN-to-Ethernet adapter
  socketcan://can0    Linux SocketCAN interface`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		// glog flags are parsed by cobra, mark the std flag set as parsed.
		return flag.CommandLine.Parse(nil)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.AddCommand(runCmd, versionCmd)
}
