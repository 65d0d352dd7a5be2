package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "fmtuner",
	Short:        "Control an RDA5807M FM receiver over I2C.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

var (
	busName string
	addr    uint8
	band    uint8
	spacing uint8
	debug   bool
	timeout time.Duration
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&busName, "bus", "", "I2C bus name or number, e.g. I2C1; the first bus when empty")
	flags.Uint8Var(&addr, "addr", 0x11, "I2C address of the receiver")
	flags.Uint8Var(&band, "band", 0, "Band: 0 87-108 MHz, 1 76-91 MHz, 2 76-108 MHz, 3 65-76 MHz")
	flags.Uint8Var(&spacing, "spacing", 0, "Channel spacing: 0 100 kHz, 1 200 kHz, 2 50 kHz, 3 25 kHz")
	flags.BoolVar(&debug, "debug", false, "Trace every register access")
	flags.DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for a tune or seek to complete")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
