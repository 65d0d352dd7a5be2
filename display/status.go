package display

import (
	"fmt"
	"strings"
	"unicode"
)

// Status is what the tuner status screen shows.
type Status struct {
	FrequencyKHz uint32
	RSSI         uint8
	Stereo       bool
	Volume       uint8
	Muted        bool
	Seeking      bool
}

// Lines renders the status as two screen rows, with the frequency cut to
// 10 kHz:
//
//	101.70 MHz ST
//	RSSI  42 VOL  8
func (s Status) Lines() [Rows]string {
	mode := "MO"
	if s.Stereo {
		mode = "ST"
	}
	if s.Seeking {
		mode = "SEEK"
	}

	second := fmt.Sprintf("RSSI %3d VOL %2d", s.RSSI, s.Volume)
	if s.Muted {
		second = fmt.Sprintf("RSSI %3d MUTED", s.RSSI)
	}

	return [Rows]string{
		fit(fmt.Sprintf("%3d.%02d MHz %s", s.FrequencyKHz/1000, s.FrequencyKHz%1000/10, mode)),
		fit(second),
	}
}

// fit pads or cuts line to the screen width.
func fit(line string) string {
	return fmt.Sprintf("%-*.*s", Columns, Columns, line)
}

// split breaks msg into screen rows of Columns characters. Newlines start a
// new row, anything that doesn't fit on the screen is dropped.
func split(msg string) [Rows]string {
	var rows [Rows]string
	row := 0
	for _, line := range strings.Split(msg, "\n") {
		part := []rune(line)
		for row < Rows {
			if len(part) <= Columns {
				rows[row] = fit(string(part))
				row++
				break
			}
			rows[row] = string(part[:Columns])
			part = part[Columns:]
			row++
		}
	}
	for ; row < Rows; row++ {
		rows[row] = fit("")
	}
	return rows
}

// romChar maps r to the HD44780 character ROM. Only ASCII is shared with
// it, everything else shows as '?'.
func romChar(r rune) byte {
	if r > unicode.MaxASCII {
		return '?'
	}
	return byte(r)
}
