package radio

import (
	"periph.io/x/conn/v3/i2c"
)

// PeriphBus lets the driver use a periph I2C bus, like the ones returned by
// i2creg.Open.
type PeriphBus struct {
	Bus i2c.Bus
}

// Write implements Bus.
func (p PeriphBus) Write(addr Address, w []byte) error {
	return p.Bus.Tx(uint16(addr), w, nil)
}

// WriteRead implements Bus.
func (p PeriphBus) WriteRead(addr Address, w, r []byte) error {
	return p.Bus.Tx(uint16(addr), w, r)
}
