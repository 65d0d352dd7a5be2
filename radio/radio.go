// Package radio implements a driver for the RDA5807M single chip FM
// receiver.
//
// The Driver talks to the chip through any Bus. Every call is a direct
// register transaction: nothing is cached between calls, bus failures are
// returned as *BusError right away and nothing is retried.
//
// Adaptors are provided for gobot (GobotBus, RDA5807MDriver) and periph
// (PeriphBus).
//
// To read about the register map of the receiver, read the datasheet:
// https://atta.szlcsc.com/upload/public/pdf/source/20190304/C82537_BECFDFEE4CC96E1FC10CC52133444FD5.pdf
package radio

// Defaults is the pair of words Start writes to REG_CONFIG and REG_TUNING.
type Defaults struct {
	Config ConfigRegister
	Tuning TuningRegister
}

// DefaultDefaults powers the chip up unmuted with bass boost, RDS and the
// new demodulation method, seeking up, on the 87-108 MHz band with 100 kHz
// spacing.
func DefaultDefaults() Defaults {
	return Defaults{
		Config: ConfigRegister{
			OutputEnabled: true,
			Unmuted:       true,
			BassBoost:     true,
			SeekUp:        true,
			RDS:           true,
			NewMethod:     true,
			Enabled:       true,
		},
		Tuning: TuningRegister{
			Band:    BandWest,
			Spacing: Spacing100kHz,
		},
	}
}

// Driver controls one RDA5807M. It owns its bus until Destroy and is not safe
// for concurrent use.
type Driver struct {
	bus      Bus
	addr     Address
	defaults Defaults
	debugLog func(format string, v ...interface{})
}

// Option configures a Driver.
type Option func(*Driver)

// WithDefaults replaces the words written by Start.
func WithDefaults(defaults Defaults) Option {
	return func(d *Driver) {
		d.defaults = defaults
	}
}

// WithDebugLog traces every register access to log.
func WithDebugLog(log func(format string, v ...interface{})) Option {
	return func(d *Driver) {
		d.debugLog = log
	}
}

// New creates a driver for the chip at addr on bus.
func New(bus Bus, addr Address, options ...Option) *Driver {
	d := &Driver{
		bus:      bus,
		addr:     addr,
		defaults: DefaultDefaults(),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Address is the bus address the driver talks to.
func (d *Driver) Address() Address {
	return d.addr
}

// Destroy hands the bus back to the caller. The driver can't be used
// afterwards.
func (d *Driver) Destroy() Bus {
	bus := d.bus
	d.bus = nil
	return bus
}

// CheckID reports whether the device answers with the RDA5807M chip id. A
// different id is not an error.
func (d *Driver) CheckID() (bool, error) {
	id, err := d.readRegister(REG_CHIPID)
	if err != nil {
		return false, err
	}
	return id == ChipID, nil
}

// Start writes the default configuration and then the default tuning. The
// words are not read back.
func (d *Driver) Start() error {
	if err := d.writeRegister(REG_CONFIG, d.defaults.Config.Encode()); err != nil {
		return err
	}
	return d.writeRegister(REG_TUNING, d.defaults.Tuning.Encode())
}

// Stop clears REG_CONFIG, which powers the chip down.
func (d *Driver) Stop() error {
	return d.writeRegister(REG_CONFIG, 0)
}

// Config reads REG_CONFIG.
func (d *Driver) Config() (ConfigRegister, error) {
	word, err := d.readRegister(REG_CONFIG)
	if err != nil {
		return ConfigRegister{}, err
	}
	return DecodeConfig(word), nil
}

// Tuning reads REG_TUNING.
func (d *Driver) Tuning() (TuningRegister, error) {
	word, err := d.readRegister(REG_TUNING)
	if err != nil {
		return TuningRegister{}, err
	}
	return DecodeTuning(word), nil
}

// Status reads REG_STATUS.
func (d *Driver) Status() (StatusRegister, error) {
	word, err := d.readRegister(REG_STATUS)
	if err != nil {
		return StatusRegister{}, err
	}
	return DecodeStatus(word), nil
}

// Volume reads REG_VOLUME.
func (d *Driver) Volume() (VolumeRegister, error) {
	word, err := d.readRegister(REG_VOLUME)
	if err != nil {
		return VolumeRegister{}, err
	}
	return DecodeVolume(word), nil
}

// SetVolume sets the volume, 0 to 15. Higher levels are set to 15.
func (d *Driver) SetVolume(level uint8) error {
	if uint16(level) > VolumeLevel.Max() {
		level = uint8(VolumeLevel.Max())
	}
	return d.updateRegister(REG_VOLUME, VolumeLevel, uint16(level))
}

// VolumeUp raises the volume by one step, up to 15.
func (d *Driver) VolumeUp() error {
	return d.modifyRegister(REG_VOLUME, func(old uint16) uint16 {
		level := VolumeLevel.Extract(old)
		if level < VolumeLevel.Max() {
			level++
		}
		return VolumeLevel.Inject(old, level)
	})
}

// VolumeDown lowers the volume by one step, down to 0.
func (d *Driver) VolumeDown() error {
	return d.modifyRegister(REG_VOLUME, func(old uint16) uint16 {
		level := VolumeLevel.Extract(old)
		if level > 0 {
			level--
		}
		return VolumeLevel.Inject(old, level)
	})
}

// SetSeekThreshold sets the SNR threshold a seek stops at, 0 to 15. The chip
// defaults to 8; lower values find more stations.
func (d *Driver) SetSeekThreshold(threshold uint8) error {
	if uint16(threshold) > VolumeSeekTh.Max() {
		threshold = uint8(VolumeSeekTh.Max())
	}
	return d.updateRegister(REG_VOLUME, VolumeSeekTh, uint16(threshold))
}

// Mute mutes or unmutes the audio output. DMUTE is active low: muting clears it.
func (d *Driver) Mute(mute bool) error {
	return d.modifyRegister(REG_CONFIG, func(old uint16) uint16 {
		return ConfigDMute.Set(old, !mute)
	})
}

// SeekUp starts a seek towards higher frequencies, see seek.
func (d *Driver) SeekUp(wrap bool) error {
	return d.seek(true, wrap)
}

// SeekDown starts a seek towards lower frequencies, see seek.
func (d *Driver) SeekDown(wrap bool) error {
	return d.seek(false, wrap)
}

// seek starts a seek. With wrap the chip continues from the other end of the
// band when it reaches a band limit, otherwise it stops there. It returns as
// soon as the command is written: poll Status for SeekTuneDone and
// SeekFailed.
func (d *Driver) seek(up, wrap bool) error {
	return d.modifyRegister(REG_CONFIG, func(old uint16) uint16 {
		w := ConfigSeek.Set(old, true)
		w = ConfigSeekUp.Set(w, up)
		return ConfigSkMode.Set(w, !wrap)
	})
}

// RSSI reads the received signal strength.
func (d *Driver) RSSI() (uint8, error) {
	word, err := d.readRegister(REG_RSSI)
	if err != nil {
		return 0, err
	}
	return uint8(RSSILevel.Extract(word)), nil
}

// SetBand selects the band. The chip retunes to the current channel index
// of the new band only once Tune or a seek is issued.
func (d *Driver) SetBand(band Band) error {
	return d.updateRegister(REG_TUNING, TuningBand, uint16(band))
}

// SetSpacing selects the channel spacing.
func (d *Driver) SetSpacing(spacing Spacing) error {
	return d.updateRegister(REG_TUNING, TuningSpace, uint16(spacing))
}

// Frequency returns the frequency in kHz the chip is tuned to. It combines
// the channel of REG_STATUS, which follows seeks, with the band and spacing
// of REG_TUNING.
func (d *Driver) Frequency() (uint32, error) {
	tuning, err := d.Tuning()
	if err != nil {
		return 0, err
	}
	status, err := d.Status()
	if err != nil {
		return 0, err
	}
	return ChannelToFrequency(tuning.Band, tuning.Spacing, status.ReadChannel), nil
}

// SetFrequency tunes to freqKHz within the current band and spacing. A
// frequency off the spacing grid is rounded down to the channel below it. Like
// seeks, the tune completes asynchronously: poll Status for SeekTuneDone.
//
// Besides a *BusError it returns an error wrapping ErrInvalidFrequency, with
// nothing written, when freqKHz is below the band or its channel doesn't
// fit the channel field.
func (d *Driver) SetFrequency(freqKHz uint32) error {
	old, err := d.readRegister(REG_TUNING)
	if err != nil {
		return err
	}
	tuning := DecodeTuning(old)
	channel, err := FrequencyToChannel(tuning.Band, tuning.Spacing, freqKHz)
	if err != nil {
		return err
	}
	word := TuningChan.Inject(old, channel)
	word = TuningTune.Set(word, true)
	return d.writeRegister(REG_TUNING, word)
}
