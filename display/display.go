package display

import (
	"time"

	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
)

const (
	// command signals that we want to send a command to the screen
	command = 0x04

	// data signals that we want to send data to the screen
	data = 0x05

	// enable is the EN line of the PCF8574 backpack
	enable = 0x04

	// backlight is the backlight line of the PCF8574 backpack
	backlight = 0x08

	// address is our default address
	address = 0x27

	// Columns and Rows of the screen
	Columns = 16
	Rows    = 2
)

// HD44780 commands sent on Start. The first two switch the controller to
// 4 bit mode, then 2 lines with a 5x8 font, then display on without cursor.
var initCommands = []byte{0x33, 0x32, 0x28, 0x0C}

const (
	cmdClear     = 0x01
	cmdSetCursor = 0x80
	rowOffset    = 0x40
)

// LCD1602Driver controls an HD44780 16x2 LCD behind a PCF8574 I2C backpack,
// such as the one from SunFounder.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
type LCD1602Driver struct {
	name         string
	i2cConnector i2c.Connector
	i2c.Config
	gobot.Commander

	conn i2c.Connection

	backlightEnabled bool
	sleep            func(time.Duration)
}

// NewLCD1602Driver creates a new GoBot driver for the status screen.
func NewLCD1602Driver(connector i2c.Connector, options ...func(i2c.Config)) (*LCD1602Driver, error) {
	lcd := &LCD1602Driver{
		name:             gobot.DefaultName("LCD1602Driver"),
		i2cConnector:     connector,
		Config:           i2c.NewConfig(),
		Commander:        gobot.NewCommander(),
		backlightEnabled: true,
		sleep:            time.Sleep,
	}

	for _, option := range options {
		option(lcd)
	}

	lcd.AddCommand("message", func(params map[string]interface{}) interface{} {
		msg, _ := params["message"].(string)
		return lcd.DisplayMessage(msg)
	})
	lcd.AddCommand("clear", func(map[string]interface{}) interface{} {
		return lcd.ClearScreen()
	})

	return lcd, nil
}

// Name of our device
func (lcd *LCD1602Driver) Name() string {
	return lcd.name
}

// SetName set the name of our device
func (lcd *LCD1602Driver) SetName(name string) {
	lcd.name = name
}

// Connection retrieves the i2c connection to the device
func (lcd *LCD1602Driver) Connection() gobot.Connection {
	return lcd.i2cConnector.(gobot.Connection)
}

// Start the device work
func (lcd *LCD1602Driver) Start() error {
	bus := lcd.GetBusOrDefault(lcd.i2cConnector.GetDefaultBus())
	addr := lcd.GetAddressOrDefault(address)

	var err error
	lcd.conn, err = lcd.i2cConnector.GetConnection(addr, bus)
	if err != nil {
		return err
	}

	for _, cmd := range initCommands {
		if err = lcd.sendCommand(cmd); err != nil {
			return err
		}
		lcd.sleep(5 * time.Millisecond)
	}

	return lcd.ClearScreen()
}

// Halt turns the backlight off and clears the screen
func (lcd *LCD1602Driver) Halt() error {
	if lcd.conn == nil {
		return nil
	}
	lcd.backlightEnabled = false
	return lcd.ClearScreen()
}

func (lcd *LCD1602Driver) sendCommand(cmd byte) error {
	return lcd.communicate(command, cmd)
}

func (lcd *LCD1602Driver) sendData(b byte) error {
	return lcd.communicate(data, b)
}

// write puts one byte on the backpack's port, with the backlight line set
// to the current backlight state
func (lcd *LCD1602Driver) write(b byte) error {
	if lcd.backlightEnabled {
		b |= backlight
	} else {
		b &^= backlight
	}

	return lcd.conn.WriteByte(b)
}

// pulse writes the nibble in the high half of b with EN high, then low, which
// latches it into the controller
func (lcd *LCD1602Driver) pulse(b byte) error {
	if err := lcd.write(b | enable); err != nil {
		return err
	}

	lcd.sleep(2 * time.Millisecond)

	return lcd.write(b &^ enable)
}

// communicate sends cmd as two nibbles, high first. cmdType selects
// between command and data.
func (lcd *LCD1602Driver) communicate(cmdType byte, cmd byte) error {
	if err := lcd.pulse(cmd&0xF0 | cmdType); err != nil {
		return err
	}
	return lcd.pulse((cmd&0x0F)<<4 | cmdType)
}

// EnableBacklight turns on the screen backlight
func (lcd *LCD1602Driver) EnableBacklight() error {
	lcd.backlightEnabled = true
	err := lcd.write(0)
	lcd.sleep(2 * time.Millisecond)
	return err
}

// DisableBacklight turns off the screen backlight
func (lcd *LCD1602Driver) DisableBacklight() error {
	lcd.backlightEnabled = false
	err := lcd.write(0)
	lcd.sleep(2 * time.Millisecond)
	return err
}

// ClearScreen removes any message from the LCD screen
func (lcd *LCD1602Driver) ClearScreen() error {
	// The screen clearing commands needs to be
	// sent with the backlight turned on
	tmp := lcd.backlightEnabled
	lcd.backlightEnabled = true
	if err := lcd.sendCommand(cmdClear); err != nil {
		return err
	}

	lcd.sleep(2 * time.Millisecond)

	if tmp {
		return lcd.EnableBacklight()
	}
	return lcd.DisableBacklight()
}

// DisplayMessageWithCoordinates renders msg starting at column x of row y.
// Text past the end of the row is dropped and characters outside ASCII are
// shown as '?'.
func (lcd *LCD1602Driver) DisplayMessageWithCoordinates(x, y int, msg string) error {
	x = clamp(x, 0, Columns-1)
	y = clamp(y, 0, Rows-1)

	if err := lcd.sendCommand(cursor(x, y)); err != nil {
		return err
	}

	text := []rune(msg)
	if len(text) > Columns-x {
		text = text[:Columns-x]
	}
	for _, ch := range text {
		if err := lcd.sendData(romChar(ch)); err != nil {
			return err
		}
	}
	return nil
}

// DisplayMessage renders msg over the whole screen, 16 characters per row.
// Shorter messages are padded with spaces.
func (lcd *LCD1602Driver) DisplayMessage(msg string) error {
	for row, line := range split(msg) {
		if err := lcd.DisplayMessageWithCoordinates(0, row, line); err != nil {
			return err
		}
	}
	return nil
}

// ShowStatus renders the tuner status screen.
func (lcd *LCD1602Driver) ShowStatus(status Status) error {
	for row, line := range status.Lines() {
		if err := lcd.DisplayMessageWithCoordinates(0, row, line); err != nil {
			return err
		}
	}
	return nil
}

func cursor(x, y int) byte {
	return byte(cmdSetCursor + rowOffset*y + x)
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
