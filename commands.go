package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"fmtuner/display"
	"fmtuner/radio"
)

var (
	wrap        bool
	runFreq     float64
	runVolume   uint8
	lcdEnabled  bool
	lcdAddress  uint8
	refreshRate time.Duration
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "probe",
		Short: "Check that an RDA5807M answers on the bus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				logrus.Infof("RDA5807M found at 0x%02x", uint8(tuner.Address()))
				return nil
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "start [MHz]",
		Short: "Power the receiver up, optionally tuned to a frequency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				if err := tuner.Start(); err != nil {
					return err
				}
				if len(args) == 0 {
					return nil
				}
				return tune(tuner, args[0])
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Power the receiver down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				return tuner.Stop()
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "tune MHz",
		Short: "Tune to a frequency within the current band",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				return tune(tuner, args[0])
			})
		},
	})

	seekCmd := &cobra.Command{
		Use:       "seek up|down",
		Short:     "Seek the next station",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				return seek(tuner, args[0] == "up")
			})
		},
	}
	seekCmd.Flags().BoolVarP(&wrap, "wrap", "w", false, "Continue from the other end of the band at a band limit")
	rootCmd.AddCommand(seekCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "volume 0-15|up|down",
		Short: "Set the volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				return volume(tuner, args[0])
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:       "mute on|off",
		Short:     "Mute or unmute the audio output",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				return tuner.Mute(args[0] == "on")
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "threshold 0-15",
		Short: "Set the SNR threshold a seek stops at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", args[0], err)
			}
			return withTuner(func(tuner *radio.Driver) error {
				return tuner.SetSeekThreshold(uint8(th))
			})
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show what the receiver is doing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTuner(func(tuner *radio.Driver) error {
				status, err := readStatus(tuner)
				if err != nil {
					return err
				}
				for _, line := range status.Lines() {
					fmt.Println(strings.TrimRight(line, " "))
				}
				return nil
			})
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the receiver with a status screen until interrupted",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return run() },
	}
	runCmd.Flags().Float64VarP(&runFreq, "frequency", "f", 0, "Frequency to tune to in MHz")
	runCmd.Flags().Uint8Var(&runVolume, "volume", 8, "Volume, 0-15")
	runCmd.Flags().BoolVar(&lcdEnabled, "lcd", true, "Show the status on an LCD1602")
	runCmd.Flags().Uint8Var(&lcdAddress, "lcd-addr", 0x27, "I2C address of the LCD backpack")
	runCmd.Flags().DurationVar(&refreshRate, "refresh", time.Second, "How often to refresh the status")
	rootCmd.AddCommand(runCmd)
}

// tunerConfig turns the global flags into a validated configuration.
func tunerConfig(freqKHz uint32, volume uint8) (radio.TunerConfig, error) {
	cfg := radio.TunerConfig{
		Address:   radio.Address(addr),
		Band:      radio.Band(band),
		Spacing:   radio.Spacing(spacing),
		Frequency: freqKHz,
		Volume:    volume,
		Log:       logrus.Infof,
		DebugMode: debug,
		DebugLog:  logrus.Debugf,
	}
	if err := cfg.Validate(); err != nil {
		return radio.TunerConfig{}, err
	}
	return cfg, nil
}

// withTuner opens the bus with periph, checks the chip is there and runs fn.
// The bus is closed afterwards, the chip keeps running.
func withTuner(fn func(tuner *radio.Driver) error) (err error) {
	cfg, err := tunerConfig(0, 0)
	if err != nil {
		return err
	}

	if _, err = host.Init(); err != nil {
		return fmt.Errorf("couldn't initialize peripherals: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return fmt.Errorf("couldn't initialize i2c bus: %w", err)
	}
	logrus.Debugf("using i2c bus %s", bus)

	options := []radio.Option{radio.WithDefaults(*cfg.Defaults)}
	if cfg.DebugMode {
		options = append(options, radio.WithDebugLog(cfg.DebugLog))
	}
	tuner := radio.New(radio.PeriphBus{Bus: bus}, cfg.Address, options...)
	defer func() {
		tuner.Destroy()
		if cerr := bus.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("closing i2c bus: %w", cerr))
		}
	}()

	found, err := tuner.CheckID()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("couldn't find radio at 0x%02x on %s", uint8(cfg.Address), bus)
	}
	return fn(tuner)
}

// parseMHz converts a frequency like 101.7 to kHz.
func parseMHz(s string) (uint32, error) {
	mhz, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q, want MHz like 101.7", s)
	}
	return mhzToKHz(mhz)
}

func mhzToKHz(mhz float64) (uint32, error) {
	if mhz <= 0 || mhz > 1000 {
		return 0, fmt.Errorf("frequency %g MHz out of range", mhz)
	}
	return uint32(math.Round(mhz * 1000)), nil
}

func tune(tuner *radio.Driver, arg string) error {
	freq, err := parseMHz(arg)
	if err != nil {
		return err
	}
	if err = tuner.SetFrequency(freq); err != nil {
		return err
	}
	return report(tuner)
}

func seek(tuner *radio.Driver, up bool) error {
	var err error
	if up {
		err = tuner.SeekUp(wrap)
	} else {
		err = tuner.SeekDown(wrap)
	}
	if err != nil {
		return err
	}
	return report(tuner)
}

// report waits for the pending tune or seek and logs where it ended.
func report(tuner *radio.Driver) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	status, err := tuner.WaitSeekTune(ctx, radio.DefaultPollInterval)
	if err != nil {
		return fmt.Errorf("waiting for the tuner: %w", err)
	}
	freq, err := tuner.Frequency()
	if err != nil {
		return err
	}
	if status.SeekFailed {
		logrus.Warnf("no station found, stopped at %d.%02d MHz", freq/1000, freq%1000/10)
		return nil
	}
	rssi, err := tuner.RSSI()
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"stereo": status.Stereo,
		"rssi":   rssi,
	}).Infof("tuned to %d.%02d MHz", freq/1000, freq%1000/10)
	return nil
}

func volume(tuner *radio.Driver, arg string) error {
	switch arg {
	case "up":
		return tuner.VolumeUp()
	case "down":
		return tuner.VolumeDown()
	}
	level, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return fmt.Errorf("invalid volume %q, want 0-15, up or down", arg)
	}
	return tuner.SetVolume(uint8(level))
}

// readStatus collects what the status screen shows.
func readStatus(tuner *radio.Driver) (display.Status, error) {
	config, err := tuner.Config()
	if err != nil {
		return display.Status{}, err
	}
	freq, err := tuner.Frequency()
	if err != nil {
		return display.Status{}, err
	}
	status, err := tuner.Status()
	if err != nil {
		return display.Status{}, err
	}
	vol, err := tuner.Volume()
	if err != nil {
		return display.Status{}, err
	}
	rssi, err := tuner.RSSI()
	if err != nil {
		return display.Status{}, err
	}
	return display.Status{
		FrequencyKHz: freq,
		RSSI:         rssi,
		Stereo:       status.Stereo,
		Volume:       vol.Volume,
		Muted:        !config.Unmuted,
		Seeking:      config.Seek && !status.SeekTuneDone,
	}, nil
}

// gobotBus maps the --bus flag to the bus number of a gobot adaptor. An
// empty name keeps the adaptor's default bus.
func gobotBus(name string) (int, bool, error) {
	if name == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(name), "I2C"))
	if err != nil || n < 0 {
		return 0, false, fmt.Errorf("invalid i2c bus %q", name)
	}
	return n, true, nil
}

// run drives the receiver as a gobot robot on a Raspberry Pi, refreshing the
// status screen until interrupted.
func run() (err error) {
	var freq uint32
	if runFreq != 0 {
		if freq, err = mhzToKHz(runFreq); err != nil {
			return err
		}
	}
	cfg, err := tunerConfig(freq, runVolume)
	if err != nil {
		return err
	}

	var options []func(i2c.Config)
	bus, ok, err := gobotBus(busName)
	if err != nil {
		return err
	}
	if ok {
		options = append(options, i2c.WithBus(bus))
	}

	adaptor := raspi.NewAdaptor()
	rdio, err := radio.NewRDA5807MDriver(adaptor, cfg, options...)
	if err != nil {
		return err
	}
	devices := []gobot.Device{rdio}

	var lcd *display.LCD1602Driver
	if lcdEnabled {
		lcd, err = display.NewLCD1602Driver(adaptor, append(options, i2c.WithAddress(int(lcdAddress)))...)
		if err != nil {
			return err
		}
		devices = append(devices, lcd)
	}

	var show func(display.Status) error
	if lcd != nil {
		show = lcd.ShowStatus
	}
	tickers := make(chan *time.Ticker, 1)
	work := func() {
		tickers <- gobot.Every(refreshRate, func() {
			if err := refresh(rdio, show); err != nil {
				logrus.Errorln(err)
			}
		})
	}

	robot := gobot.NewRobot("FM receiver",
		[]gobot.Connection{adaptor},
		devices,
		work,
	)

	err = robot.Start()
	select {
	case ticker := <-tickers:
		ticker.Stop()
	default:
	}
	return err
}

// refresh reads the tuner status and hands it to show, if any. It does
// nothing once the tuner is halted. show runs before the tuner can halt,
// and the tuner is halted before the screen.
func refresh(rdio *radio.RDA5807MDriver, show func(display.Status) error) error {
	err := rdio.WithTuner(func(tuner *radio.Driver) error {
		status, err := readStatus(tuner)
		if err != nil {
			return err
		}
		logrus.Debugf("status %+v", status)
		if show == nil {
			return nil
		}
		return show(status)
	})
	if errors.Is(err, radio.ErrReleased) {
		return nil
	}
	return err
}
