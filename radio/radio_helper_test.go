package radio

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"gobot.io/x/gobot/drivers/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

// I2CTestAdaptor is useful to implement tests for
// passing i2c messages back and forth. It emulates the
// register file of an RDA5807M in random access mode.
type I2CTestAdaptor struct {
	name          string
	written       []byte
	lastWritten   []byte
	registers     map[byte]uint16
	connected     []int
	closed        int
	mtx           sync.Mutex
	i2cConnectErr bool
	i2cCloseErr   error
	i2cReadImpl   func(*I2CTestAdaptor, []byte) (int, error)
	i2cWriteImpl  func(*I2CTestAdaptor, []byte) (int, error)
}

func NewI2cTestAdaptor() *I2CTestAdaptor {
	return &I2CTestAdaptor{
		registers: map[byte]uint16{
			byte(REG_CHIPID): ChipID,
			byte(REG_VOLUME): 0x8808,
		},
		i2cReadImpl: func(t *I2CTestAdaptor, buff []byte) (int, error) {
			if len(t.lastWritten) != 1 {
				return 0, fmt.Errorf("read without a register index, last write %v", t.lastWritten)
			}
			word := t.registers[t.lastWritten[0]]
			n := copy(buff, []byte{byte(word >> 8), byte(word)})
			return n, nil
		},
		i2cWriteImpl: func(t *I2CTestAdaptor, buff []byte) (int, error) {
			t.lastWritten = make([]byte, len(buff))
			copy(t.lastWritten, buff)
			if len(buff) == 3 {
				t.registers[buff[0]] = uint16(buff[1])<<8 | uint16(buff[2])
			}
			return len(buff), nil
		},
	}
}

func (t *I2CTestAdaptor) register(reg Register) uint16 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.registers[byte(reg)]
}

func (t *I2CTestAdaptor) Read(b []byte) (count int, err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.i2cReadImpl(t, b)
}

func (t *I2CTestAdaptor) Write(b []byte) (count int, err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.written = append(t.written, b...)
	return t.i2cWriteImpl(t, b)
}

func (t *I2CTestAdaptor) Close() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.closed++
	return t.i2cCloseErr
}

func (t *I2CTestAdaptor) ReadByte() (val byte, err error) {
	return 0, errors.New("ReadByte not supported by the RDA5807M")
}

func (t *I2CTestAdaptor) ReadByteData(uint8) (val uint8, err error) {
	return 0, errors.New("ReadByteData not supported by the RDA5807M")
}

func (t *I2CTestAdaptor) ReadWordData(uint8) (val uint16, err error) {
	return 0, errors.New("ReadWordData not supported by the RDA5807M")
}

func (t *I2CTestAdaptor) WriteByte(byte) (err error) {
	return errors.New("WriteByte not supported by the RDA5807M")
}

func (t *I2CTestAdaptor) WriteByteData(uint8, uint8) (err error) {
	return errors.New("WriteByteData not supported by the RDA5807M")
}

func (t *I2CTestAdaptor) WriteWordData(uint8, uint16) (err error) {
	return errors.New("WriteWordData not supported by the RDA5807M")
}

func (t *I2CTestAdaptor) WriteBlockData(uint8, []byte) (err error) {
	return errors.New("WriteBlockData not supported by the RDA5807M")
}

func (t *I2CTestAdaptor) GetConnection(address int, _ int) (connection i2c.Connection, err error) {
	if t.i2cConnectErr {
		return nil, errors.New("invalid i2c connection")
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.connected = append(t.connected, address)
	return t, nil
}

func (t *I2CTestAdaptor) GetDefaultBus() int {
	return 1
}

func (t *I2CTestAdaptor) Name() string          { return t.name }
func (t *I2CTestAdaptor) SetName(n string)      { t.name = n }
func (t *I2CTestAdaptor) Connect() (err error)  { return }
func (t *I2CTestAdaptor) Finalize() (err error) { return }

// failingBus fails reads, writes or both and remembers the writes it was
// asked to do.
type failingBus struct {
	readErr  error
	writeErr error
	reads    int
	writes   [][]byte
}

func (f *failingBus) Write(_ Address, w []byte) error {
	f.writes = append(f.writes, append([]byte(nil), w...))
	return f.writeErr
}

func (f *failingBus) WriteRead(_ Address, _, r []byte) error {
	f.reads++
	for i := range r {
		r[i] = 0
	}
	return f.readErr
}

// writeOp is the transaction writing value to reg.
func writeOp(reg Register, value uint16) i2ctest.IO {
	return i2ctest.IO{
		Addr: uint16(DefaultAddress),
		W:    []byte{byte(reg), byte(value >> 8), byte(value)},
	}
}

// readOp is the transaction reading value from reg.
func readOp(reg Register, value uint16) i2ctest.IO {
	return i2ctest.IO{
		Addr: uint16(DefaultAddress),
		W:    []byte{byte(reg)},
		R:    []byte{byte(value >> 8), byte(value)},
	}
}

// newPlaybackDriver returns a driver whose bus expects exactly ops.
func newPlaybackDriver(ops ...i2ctest.IO) *Driver {
	return New(PeriphBus{Bus: &i2ctest.Playback{Ops: ops}}, DefaultAddress)
}

// destroy releases the driver's bus and checks every expected transaction
// happened.
func destroy(t *testing.T, d *Driver) {
	t.Helper()
	bus, ok := d.Destroy().(PeriphBus)
	if !ok {
		t.Fatalf("driver bus is not a PeriphBus")
	}
	if err := bus.Bus.(*i2ctest.Playback).Close(); err != nil {
		t.Fatal(err)
	}
}
