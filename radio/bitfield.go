package radio

// Field describes a contiguous run of bits inside a 16-bit register word.
// Shift is the position of the lowest bit set in Mask.
type Field struct {
	Mask  uint16
	Shift uint8
}

func bit(n uint8) Field {
	return Field{Mask: 1 << n, Shift: n}
}

// Extract returns the field's value from word, right aligned.
func (f Field) Extract(word uint16) uint16 {
	return (word & f.Mask) >> f.Shift
}

// Inject returns word with the field's bits replaced by value. Bits outside
// the field are kept and a value wider than the field is truncated.
func (f Field) Inject(word, value uint16) uint16 {
	return (word &^ f.Mask) | ((value << f.Shift) & f.Mask)
}

// Max is the largest value the field can hold.
func (f Field) Max() uint16 {
	return f.Mask >> f.Shift
}

// IsSet reports whether any of the field's bits are set in word.
func (f Field) IsSet(word uint16) bool {
	return word&f.Mask != 0
}

// Set sets or clears the whole field.
func (f Field) Set(word uint16, on bool) uint16 {
	if on {
		return word | f.Mask
	}
	return word &^ f.Mask
}

// ConfigRegister is the decoded REG_CONFIG word.
type ConfigRegister struct {
	OutputEnabled  bool // DHIZ
	Unmuted        bool // DMUTE
	Mono           bool
	BassBoost      bool
	RCLKNonCal     bool
	RCLKDirect     bool
	SeekUp         bool
	Seek           bool
	SeekStopAtEdge bool // SKMODE
	ClockMode      ClockMode
	RDS            bool
	NewMethod      bool
	SoftReset      bool
	Enabled        bool
}

// DecodeConfig decodes a REG_CONFIG word.
func DecodeConfig(word uint16) ConfigRegister {
	return ConfigRegister{
		OutputEnabled:  ConfigDHIZ.IsSet(word),
		Unmuted:        ConfigDMute.IsSet(word),
		Mono:           ConfigMono.IsSet(word),
		BassBoost:      ConfigBass.IsSet(word),
		RCLKNonCal:     ConfigRCLKNonCal.IsSet(word),
		RCLKDirect:     ConfigRCLKDirect.IsSet(word),
		SeekUp:         ConfigSeekUp.IsSet(word),
		Seek:           ConfigSeek.IsSet(word),
		SeekStopAtEdge: ConfigSkMode.IsSet(word),
		ClockMode:      ClockMode(ConfigClkMode.Extract(word)),
		RDS:            ConfigRDS.IsSet(word),
		NewMethod:      ConfigNewMethod.IsSet(word),
		SoftReset:      ConfigSoftReset.IsSet(word),
		Enabled:        ConfigEnable.IsSet(word),
	}
}

// Encode packs the configuration into a REG_CONFIG word.
func (c ConfigRegister) Encode() uint16 {
	var w uint16
	w = ConfigDHIZ.Set(w, c.OutputEnabled)
	w = ConfigDMute.Set(w, c.Unmuted)
	w = ConfigMono.Set(w, c.Mono)
	w = ConfigBass.Set(w, c.BassBoost)
	w = ConfigRCLKNonCal.Set(w, c.RCLKNonCal)
	w = ConfigRCLKDirect.Set(w, c.RCLKDirect)
	w = ConfigSeekUp.Set(w, c.SeekUp)
	w = ConfigSeek.Set(w, c.Seek)
	w = ConfigSkMode.Set(w, c.SeekStopAtEdge)
	w = ConfigClkMode.Inject(w, uint16(c.ClockMode))
	w = ConfigRDS.Set(w, c.RDS)
	w = ConfigNewMethod.Set(w, c.NewMethod)
	w = ConfigSoftReset.Set(w, c.SoftReset)
	w = ConfigEnable.Set(w, c.Enabled)
	return w
}

// TuningRegister is the decoded REG_TUNING word.
type TuningRegister struct {
	Channel uint16
	Direct  bool
	Tune    bool
	Band    Band
	Spacing Spacing
}

// DecodeTuning decodes a REG_TUNING word.
func DecodeTuning(word uint16) TuningRegister {
	return TuningRegister{
		Channel: TuningChan.Extract(word),
		Direct:  TuningDirect.IsSet(word),
		Tune:    TuningTune.IsSet(word),
		Band:    Band(TuningBand.Extract(word)),
		Spacing: Spacing(TuningSpace.Extract(word)),
	}
}

// Encode packs the tuning settings into a REG_TUNING word.
func (t TuningRegister) Encode() uint16 {
	var w uint16
	w = TuningChan.Inject(w, t.Channel)
	w = TuningDirect.Set(w, t.Direct)
	w = TuningTune.Set(w, t.Tune)
	w = TuningBand.Inject(w, uint16(t.Band))
	w = TuningSpace.Inject(w, uint16(t.Spacing))
	return w
}

// Frequency is the frequency in kHz the tuning settings select.
func (t TuningRegister) Frequency() uint32 {
	return ChannelToFrequency(t.Band, t.Spacing, t.Channel)
}

// StatusRegister is the decoded REG_STATUS word.
type StatusRegister struct {
	RDSReady     bool
	SeekTuneDone bool // STC
	SeekFailed   bool // SF
	RDSSync      bool
	BlockEFound  bool
	Stereo       bool

	// ReadChannel is the channel the chip settled on. Unlike
	// TuningRegister.Channel it is valid after a seek.
	ReadChannel uint16
}

// DecodeStatus decodes a REG_STATUS word.
func DecodeStatus(word uint16) StatusRegister {
	return StatusRegister{
		RDSReady:     StatusRDSR.IsSet(word),
		SeekTuneDone: StatusSTC.IsSet(word),
		SeekFailed:   StatusSF.IsSet(word),
		RDSSync:      StatusRDSS.IsSet(word),
		BlockEFound:  StatusBlkE.IsSet(word),
		Stereo:       StatusST.IsSet(word),
		ReadChannel:  StatusReadChan.Extract(word),
	}
}

// VolumeRegister is the decoded REG_VOLUME word.
type VolumeRegister struct {
	IntMode       bool
	SeekMode      uint8
	SeekThreshold uint8
	LNAPort       uint8
	LNACurrent    uint8
	Volume        uint8
}

// DecodeVolume decodes a REG_VOLUME word.
func DecodeVolume(word uint16) VolumeRegister {
	return VolumeRegister{
		IntMode:       VolumeIntMode.IsSet(word),
		SeekMode:      uint8(VolumeSeekMode.Extract(word)),
		SeekThreshold: uint8(VolumeSeekTh.Extract(word)),
		LNAPort:       uint8(VolumeLNAPort.Extract(word)),
		LNACurrent:    uint8(VolumeLNACurrent.Extract(word)),
		Volume:        uint8(VolumeLevel.Extract(word)),
	}
}
