package radio

import (
	"errors"
	"fmt"
)

// ErrInvalidFrequency is returned when a frequency can't be expressed as a
// channel of the active band and spacing.
var ErrInvalidFrequency = errors.New("invalid frequency")

// Band is the 2-bit band selector of REG_TUNING.
type Band uint8

//goland:noinspection GoUnusedConst
const (
	// BandWest is 87-108 MHz, US and Europe.
	BandWest Band = iota

	// BandJapan is 76-91 MHz.
	BandJapan

	// BandWorld is 76-108 MHz.
	BandWorld

	// BandEastEurope is 65-76 MHz, or 50-65 MHz on some revisions.
	BandEastEurope
)

// BaseKHz is the frequency of channel 0 in the band.
func (b Band) BaseKHz() uint32 {
	switch b & 0b11 {
	case BandWest:
		return 87000
	case BandJapan, BandWorld:
		return 76000
	default:
		return 65000
	}
}

func (b Band) String() string {
	switch b & 0b11 {
	case BandWest:
		return "87-108MHz"
	case BandJapan:
		return "76-91MHz"
	case BandWorld:
		return "76-108MHz"
	default:
		return "65-76MHz"
	}
}

// Spacing is the 2-bit channel spacing selector of REG_TUNING.
type Spacing uint8

//goland:noinspection GoUnusedConst
const (
	Spacing100kHz Spacing = iota
	Spacing200kHz
	Spacing50kHz
	Spacing25kHz
)

// KHz is the distance between two adjacent channels.
func (s Spacing) KHz() uint32 {
	switch s & 0b11 {
	case Spacing100kHz:
		return 100
	case Spacing200kHz:
		return 200
	case Spacing50kHz:
		return 50
	default:
		return 25
	}
}

func (s Spacing) String() string {
	return fmt.Sprintf("%dkHz", s.KHz())
}

// ChannelToFrequency returns the frequency in kHz of channel.
func ChannelToFrequency(band Band, spacing Spacing, channel uint16) uint32 {
	return band.BaseKHz() + spacing.KHz()*uint32(channel)
}

// FrequencyToChannel returns the channel closest to freqKHz from below. The
// remainder of a frequency off the spacing grid is dropped, so only grid
// aligned frequencies read back unchanged.
func FrequencyToChannel(band Band, spacing Spacing, freqKHz uint32) (uint16, error) {
	base := band.BaseKHz()
	if freqKHz < base {
		return 0, fmt.Errorf("%w: %d kHz is below the %s band", ErrInvalidFrequency, freqKHz, band)
	}
	channel := (freqKHz - base) / spacing.KHz()
	if channel > uint32(TuningChan.Max()) {
		return 0, fmt.Errorf("%w: %d kHz is past the last %s channel of the %s band",
			ErrInvalidFrequency, freqKHz, spacing, band)
	}
	return uint16(channel), nil
}
