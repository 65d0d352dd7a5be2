package radio

import (
	"fmt"
)

// defaultSeekThreshold is the chip's reset value of VolumeSeekTh.
const defaultSeekThreshold = 8

// TunerConfig holds the additional configuration needed for RDA5807MDriver.
type TunerConfig struct {
	// Address defaults to DefaultAddress.
	Address Address

	Band    Band
	Spacing Spacing

	// Frequency in kHz to tune to after start. Zero leaves the chip on
	// channel 0 of the band.
	Frequency uint32

	Volume uint8

	// SeekThreshold defaults to the chip's own default of 8.
	SeekThreshold uint8

	// Defaults written on start. Band and Spacing override its tuning.
	Defaults *Defaults

	DebugMode bool
	DebugLog  func(format string, v ...interface{})
	Log       func(format string, v ...interface{})
}

// Validate ensures that our RDA5807MDriver configuration is valid.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
func (c *TunerConfig) Validate() error {
	if c.Log == nil {
		panic("logging function cannot be nil. Use something like log.Printf or an empty function instead")
	}

	if c.DebugMode && c.DebugLog == nil {
		panic("cannot use debugging mode without configuring a DebugLog function, e.g. log.Printf")
	}

	if c.Address == 0 {
		c.Address = DefaultAddress
	}

	if c.Address > 0x7F {
		return fmt.Errorf("I2C address 0x%02x is not a 7 bit address", uint8(c.Address))
	}

	if c.Band > BandEastEurope {
		return fmt.Errorf("unknown band selector %d", c.Band)
	}

	if c.Spacing > Spacing25kHz {
		return fmt.Errorf("unknown channel spacing selector %d", c.Spacing)
	}

	if uint16(c.Volume) > VolumeLevel.Max() {
		c.Log("Volume %d > %d. Adjusting to maximum of %d.\n", c.Volume, VolumeLevel.Max(), VolumeLevel.Max())
		c.Volume = uint8(VolumeLevel.Max())
	}

	if c.SeekThreshold == 0 {
		c.SeekThreshold = defaultSeekThreshold
	} else if uint16(c.SeekThreshold) > VolumeSeekTh.Max() {
		c.Log("Seek threshold %d > %d. Adjusting to maximum of %d.\n", c.SeekThreshold, VolumeSeekTh.Max(), VolumeSeekTh.Max())
		c.SeekThreshold = uint8(VolumeSeekTh.Max())
	}

	if c.Frequency != 0 {
		channel, err := FrequencyToChannel(c.Band, c.Spacing, c.Frequency)
		if err != nil {
			return err
		}
		if tuned := ChannelToFrequency(c.Band, c.Spacing, channel); tuned != c.Frequency {
			c.Log("Frequency %d kHz is off the %s grid, %d kHz will be tuned.\n", c.Frequency, c.Spacing, tuned)
		}
	}

	defaults := DefaultDefaults()
	if c.Defaults != nil {
		defaults = *c.Defaults
	}
	defaults.Tuning.Band = c.Band
	defaults.Tuning.Spacing = c.Spacing
	c.Defaults = &defaults

	return nil
}
