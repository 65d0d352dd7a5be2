package radio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrReleased is returned by a Driver whose bus was handed back by Destroy.
var ErrReleased = errors.New("driver released its bus")

// Bus is a blocking byte oriented I2C bus. Each call is one bus transaction
// with the device at addr. Timeouts are the bus's business.
type Bus interface {
	// Write sends w.
	Write(addr Address, w []byte) error

	// WriteRead sends w and then reads exactly len(r) bytes into r, as one
	// transaction with a repeated start. PeriphBus does that. GobotBus
	// can't and issues a write and then a separate read.
	WriteRead(addr Address, w, r []byte) error
}

// BusError wraps a failure reported by the Bus.
type BusError struct {
	Op       string
	Register Register
	Err      error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("%s register 0x%02x: %v", e.Op, uint8(e.Register), e.Err)
}

// Unwrap returns the bus's own error.
func (e *BusError) Unwrap() error {
	return e.Err
}

// writeRegister sends [reg, high byte, low byte].
func (d *Driver) writeRegister(reg Register, value uint16) error {
	if d.bus == nil {
		return ErrReleased
	}
	buf := []byte{byte(reg), 0, 0}
	binary.BigEndian.PutUint16(buf[1:], value)
	if d.debugLog != nil {
		d.debugLog("write reg 0x%02x = 0x%04x\n", uint8(reg), value)
	}
	if err := d.bus.Write(d.addr, buf); err != nil {
		return &BusError{Op: "write", Register: reg, Err: err}
	}
	return nil
}

// readRegister sends [reg] and reads back a big-endian word.
func (d *Driver) readRegister(reg Register) (uint16, error) {
	if d.bus == nil {
		return 0, ErrReleased
	}
	buf := make([]byte, 2)
	if err := d.bus.WriteRead(d.addr, []byte{byte(reg)}, buf); err != nil {
		return 0, &BusError{Op: "read", Register: reg, Err: err}
	}
	value := binary.BigEndian.Uint16(buf)
	if d.debugLog != nil {
		d.debugLog("read reg 0x%02x = 0x%04x\n", uint8(reg), value)
	}
	return value, nil
}

// updateRegister replaces field in reg with value and keeps the other bits.
// It isn't atomic: another master changing reg between the read and the
// write loses its change.
func (d *Driver) updateRegister(reg Register, field Field, value uint16) error {
	return d.modifyRegister(reg, func(old uint16) uint16 {
		return field.Inject(old, value)
	})
}

// modifyRegister reads reg, applies fn and writes the result back. A failed
// read aborts before anything is written.
func (d *Driver) modifyRegister(reg Register, fn func(old uint16) uint16) error {
	old, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	return d.writeRegister(reg, fn(old))
}
