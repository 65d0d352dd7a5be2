package display

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
)

var _ gobot.Device = (*LCD1602Driver)(nil)

// backpackAdaptor records the bytes written to the PCF8574 port.
type backpackAdaptor struct {
	written   []byte
	addresses []int
	writeErr  error
}

func (b *backpackAdaptor) Read([]byte) (int, error)  { return 0, errors.New("not supported") }
func (b *backpackAdaptor) Write([]byte) (int, error) { return 0, errors.New("not supported") }
func (b *backpackAdaptor) Close() error              { return nil }
func (b *backpackAdaptor) ReadByte() (byte, error)   { return 0, errors.New("not supported") }
func (b *backpackAdaptor) ReadByteData(uint8) (uint8, error) {
	return 0, errors.New("not supported")
}
func (b *backpackAdaptor) ReadWordData(uint8) (uint16, error) {
	return 0, errors.New("not supported")
}
func (b *backpackAdaptor) WriteByteData(uint8, uint8) error   { return errors.New("not supported") }
func (b *backpackAdaptor) WriteWordData(uint8, uint16) error  { return errors.New("not supported") }
func (b *backpackAdaptor) WriteBlockData(uint8, []byte) error { return errors.New("not supported") }

func (b *backpackAdaptor) WriteByte(val byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.written = append(b.written, val)
	return nil
}

func (b *backpackAdaptor) GetConnection(address int, _ int) (i2c.Connection, error) {
	b.addresses = append(b.addresses, address)
	return b, nil
}

func (b *backpackAdaptor) GetDefaultBus() int { return 1 }
func (b *backpackAdaptor) Name() string       { return "backpack" }
func (b *backpackAdaptor) SetName(string)     {}
func (b *backpackAdaptor) Connect() error     { return nil }
func (b *backpackAdaptor) Finalize() error    { return nil }

func newTestLCD(t *testing.T) (*LCD1602Driver, *backpackAdaptor) {
	t.Helper()
	adaptor := &backpackAdaptor{}
	lcd, err := NewLCD1602Driver(adaptor)
	if err != nil {
		t.Fatal(err)
	}
	lcd.sleep = func(time.Duration) {}
	if err = lcd.Start(); err != nil {
		t.Fatal(err)
	}
	adaptor.written = nil
	return lcd, adaptor
}

func TestStart(t *testing.T) {
	adaptor := &backpackAdaptor{}
	lcd, err := NewLCD1602Driver(adaptor)
	if err != nil {
		t.Fatal(err)
	}
	lcd.sleep = func(time.Duration) {}
	if err = lcd.Start(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int{address}, adaptor.addresses); diff != "" {
		t.Fatalf("addresses mismatch (-want +got):\n%s", diff)
	}
	// 4 init commands and clear, 4 writes each, then the backlight write
	if got, want := len(adaptor.written), 5*4+1; got != want {
		t.Fatalf("wrote %d bytes, want %d", got, want)
	}
	// 0x33 with EN pulsed on each nibble
	if diff := cmp.Diff([]byte{0x3C, 0x38, 0x3C, 0x38}, adaptor.written[:4]); diff != "" {
		t.Fatalf("first command mismatch (-want +got):\n%s", diff)
	}
}

func TestStartOtherAddress(t *testing.T) {
	adaptor := &backpackAdaptor{}
	lcd, err := NewLCD1602Driver(adaptor, i2c.WithAddress(0x3F))
	if err != nil {
		t.Fatal(err)
	}
	lcd.sleep = func(time.Duration) {}
	if err = lcd.Start(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0x3F}, adaptor.addresses); diff != "" {
		t.Fatalf("addresses mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayMessageWithCoordinates(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	if err := lcd.DisplayMessageWithCoordinates(0, 0, "A"); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		// cursor to 0x80
		0x8C, 0x88, 0x0C, 0x08,
		// 'A' with RS set
		0x4D, 0x49, 0x1D, 0x19,
	}
	if diff := cmp.Diff(want, adaptor.written); diff != "" {
		t.Fatalf("written mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayMessageWithCoordinatesClamps(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	if err := lcd.DisplayMessageWithCoordinates(20, 5, "xyz"); err != nil {
		t.Fatal(err)
	}
	// cursor to row 1 column 15 is 0xCF, only one character fits
	if diff := cmp.Diff([]byte{0xCC, 0xC8, 0xFC, 0xF8}, adaptor.written[:4]); diff != "" {
		t.Fatalf("cursor mismatch (-want +got):\n%s", diff)
	}
	if got, want := len(adaptor.written), 8; got != want {
		t.Fatalf("wrote %d bytes, want %d", got, want)
	}
}

func TestDisplayMessageWithCoordinatesNonASCII(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	if err := lcd.DisplayMessageWithCoordinates(14, 0, "aéz"); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		// cursor to 0x8E
		0x8C, 0x88, 0xEC, 0xE8,
		// 'a'
		0x6D, 0x69, 0x1D, 0x19,
		// '?' for 'é', 'z' doesn't fit
		0x3D, 0x39, 0xFD, 0xF9,
	}
	if diff := cmp.Diff(want, adaptor.written); diff != "" {
		t.Fatalf("written mismatch (-want +got):\n%s", diff)
	}
}

func TestDisplayMessage(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	if err := lcd.DisplayMessage("hello"); err != nil {
		t.Fatal(err)
	}
	// two rows of a cursor command and 16 characters
	if got, want := len(adaptor.written), 2*(1+Columns)*4; got != want {
		t.Fatalf("wrote %d bytes, want %d", got, want)
	}
}

func TestBacklight(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	if err := lcd.DisableBacklight(); err != nil {
		t.Fatal(err)
	}
	if err := lcd.DisplayMessageWithCoordinates(0, 0, ""); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x84, 0x80, 0x04, 0x00}
	if diff := cmp.Diff(want, adaptor.written); diff != "" {
		t.Fatalf("written mismatch (-want +got):\n%s", diff)
	}
}

func TestHalt(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	if err := lcd.Halt(); err != nil {
		t.Fatal(err)
	}
	// clear is sent lit, then the backlight goes off
	if got := adaptor.written[len(adaptor.written)-1]; got != 0x00 {
		t.Fatalf("last write = %#02x, want the backlight off", got)
	}
	if got := adaptor.written[0]; got&backlight == 0 {
		t.Fatalf("clear was sent with the backlight off: %#02x", got)
	}

	unstarted, err := NewLCD1602Driver(&backpackAdaptor{})
	if err != nil {
		t.Fatal(err)
	}
	if err = unstarted.Halt(); err != nil {
		t.Fatalf("Halt() before Start = %v", err)
	}
}

func TestWriteError(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	adaptor.writeErr = errors.New("nack")
	if err := lcd.ShowStatus(Status{}); err == nil {
		t.Fatal("ShowStatus() succeeded on a failing bus")
	}
}

func TestCommands(t *testing.T) {
	lcd, adaptor := newTestLCD(t)
	if err := lcd.Command("message")(map[string]interface{}{"message": "hi"}); err != nil {
		t.Fatalf("message command = %v", err)
	}
	if len(adaptor.written) == 0 {
		t.Fatal("message command wrote nothing")
	}
}
