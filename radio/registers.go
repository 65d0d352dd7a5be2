package radio

// Register is the 8-bit address of one of the RDA5807M's 16-bit registers.
type Register uint8

// Register addresses of the RDA5807M.
//
//goland:noinspection GoUnusedConst,GoSnakeCaseUsage
const (
	// REG_CHIPID holds the chip identification word, see ChipID.
	REG_CHIPID Register = 0x00

	// REG_CONFIG controls audio output, mute, seek and power.
	REG_CONFIG Register = 0x02

	// REG_TUNING holds the channel, tune flag, band and channel spacing.
	REG_TUNING Register = 0x03

	// REG_GPIO configures the GPIO pins and interrupts.
	REG_GPIO Register = 0x04

	// REG_VOLUME holds the volume, seek threshold and LNA settings.
	REG_VOLUME Register = 0x05

	// REG_I2S configures the I2S audio output.
	REG_I2S Register = 0x06

	// REG_BLEND configures stereo blending and soft blend.
	REG_BLEND Register = 0x07

	// REG_FREQ is used in direct frequency mode.
	REG_FREQ Register = 0x08

	// REG_STATUS reports RDS, seek/tune completion, stereo and the read channel.
	REG_STATUS Register = 0x0A

	// REG_RSSI reports the received signal strength.
	REG_RSSI Register = 0x0B

	// REG_RDSA .. REG_RDSD hold the last RDS/RBDS group.
	REG_RDSA Register = 0x0C
	REG_RDSB Register = 0x0D
	REG_RDSC Register = 0x0E
	REG_RDSD Register = 0x0F
)

// ChipID is the value REG_CHIPID reads back on an RDA5807M.
const ChipID uint16 = 0x5804

// Address is the I2C address of the tuner.
type Address uint8

// The chip answers both access modes on the same bus address. They are kept
// apart since they select different register access semantics.
const (
	// SequentialAddress addresses the chip in sequential access mode.
	SequentialAddress Address = 0b10001

	// RandomAddress addresses the chip in random (indexed) access mode.
	// Register reads and writes in this package rely on it.
	RandomAddress Address = 0b10001

	// DefaultAddress is used when no address is configured.
	DefaultAddress = RandomAddress
)

// REG_CONFIG fields.
var (
	// ConfigDHIZ: 0 = audio output high impedance, 1 = normal operation.
	ConfigDHIZ = bit(15)

	// ConfigDMute: 0 = mute, 1 = normal operation.
	ConfigDMute = bit(14)

	// ConfigMono: 0 = stereo, 1 = force mono.
	ConfigMono = bit(13)

	// ConfigBass enables bass boost.
	ConfigBass = bit(12)

	// ConfigRCLKNonCal: 0 = RCLK always supplied, 1 = only while FM works.
	ConfigRCLKNonCal = bit(11)

	// ConfigRCLKDirect enables RCLK direct input mode.
	ConfigRCLKDirect = bit(10)

	// ConfigSeekUp: 0 = seek down, 1 = seek up.
	ConfigSeekUp = bit(9)

	// ConfigSeek starts a seek in the ConfigSeekUp direction. The chip clears
	// it and raises STC once the seek ends.
	ConfigSeek = bit(8)

	// ConfigSkMode: 0 = wrap at the band limit, 1 = stop at the band limit.
	ConfigSkMode = bit(7)

	// ConfigClkMode selects the reference clock, see ClockMode.
	ConfigClkMode = Field{Mask: 0x0070, Shift: 4}

	// ConfigRDS enables the RDS/RBDS decoder.
	ConfigRDS = bit(3)

	// ConfigNewMethod enables the new demodulation method.
	ConfigNewMethod = bit(2)

	// ConfigSoftReset resets the chip while set.
	ConfigSoftReset = bit(1)

	// ConfigEnable powers the chip up.
	ConfigEnable = bit(0)
)

// REG_TUNING fields.
var (
	// TuningChan is the channel index. The chip rewrites it after a seek.
	TuningChan = Field{Mask: 0xFFC0, Shift: 6}

	// TuningDirect enables direct frequency mode.
	TuningDirect = bit(5)

	// TuningTune starts a tune. The chip clears it and raises STC once the
	// tune ends.
	TuningTune = bit(4)

	// TuningBand selects the band, see Band.
	TuningBand = Field{Mask: 0x000C, Shift: 2}

	// TuningSpace selects the channel spacing, see Spacing.
	TuningSpace = Field{Mask: 0x0003, Shift: 0}
)

// REG_VOLUME fields.
var (
	// VolumeIntMode: 0 = 5ms interrupt, 1 = interrupt lasts until REG_RDSA is read.
	VolumeIntMode = bit(15)

	// VolumeSeekMode adds the RSSI seek mode when set to 0b10.
	VolumeSeekMode = Field{Mask: 0x6000, Shift: 13}

	// VolumeSeekTh is the seek SNR threshold.
	VolumeSeekTh = Field{Mask: 0x0F00, Shift: 8}

	// VolumeLNAPort selects the LNA input port: none, LNAN, LNAP or both.
	VolumeLNAPort = Field{Mask: 0x00C0, Shift: 6}

	// VolumeLNACurrent selects the LNA working current: 1.8, 2.1, 2.5 or 3.0 mA.
	VolumeLNACurrent = Field{Mask: 0x0030, Shift: 4}

	// VolumeLevel is the DAC gain, 0 = min, 15 = max.
	VolumeLevel = Field{Mask: 0x000F, Shift: 0}
)

// REG_STATUS fields.
var (
	// StatusRDSR signals a new RDS/RBDS group is ready.
	StatusRDSR = bit(15)

	// StatusSTC signals seek/tune completion.
	StatusSTC = bit(14)

	// StatusSF signals a seek that found no channel above the seek threshold.
	StatusSF = bit(13)

	// StatusRDSS signals the RDS decoder is synchronized.
	StatusRDSS = bit(12)

	// StatusBlkE signals block E has been found.
	StatusBlkE = bit(11)

	// StatusST signals a stereo reception.
	StatusST = bit(10)

	// StatusReadChan is the channel the chip is currently tuned to.
	StatusReadChan = Field{Mask: 0x03FF, Shift: 0}
)

// REG_RSSI fields.
var (
	// RSSILevel is the received signal strength, logarithmic.
	RSSILevel = Field{Mask: 0xFE00, Shift: 9}
)

// ClockMode is the reference clock selector of REG_CONFIG.
type ClockMode uint8

//goland:noinspection GoUnusedConst
const (
	Clock32768Hz ClockMode = 0b000
	Clock12MHz   ClockMode = 0b001
	Clock13MHz   ClockMode = 0b010
	Clock19_2MHz ClockMode = 0b011
	Clock24MHz   ClockMode = 0b101
	Clock26MHz   ClockMode = 0b110
	Clock38_4MHz ClockMode = 0b111
)
