package radio

import (
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
)

// GobotBus lets the driver use a gobot I2C connector. It opens one
// connection per device address on first use.
type GobotBus struct {
	connector i2c.Connector
	bus       int
	conns     map[Address]i2c.Connection
}

// NewGobotBus returns a Bus on the given bus number of connector.
func NewGobotBus(connector i2c.Connector, bus int) *GobotBus {
	return &GobotBus{
		connector: connector,
		bus:       bus,
		conns:     map[Address]i2c.Connection{},
	}
}

func (g *GobotBus) connection(addr Address) (i2c.Connection, error) {
	if conn, ok := g.conns[addr]; ok {
		return conn, nil
	}
	conn, err := g.connector.GetConnection(int(addr), g.bus)
	if err != nil {
		return nil, err
	}
	g.conns[addr] = conn
	return conn, nil
}

// Write implements Bus.
func (g *GobotBus) Write(addr Address, w []byte) error {
	conn, err := g.connection(addr)
	if err != nil {
		return err
	}
	n, err := conn.Write(w)
	if err != nil {
		return err
	}
	if n != len(w) {
		return io.ErrShortWrite
	}
	return nil
}

// WriteRead implements Bus. Gobot connections have no combined transfer,
// so the register index is written first and read in a second transaction
// with a stop condition in between.
func (g *GobotBus) WriteRead(addr Address, w, r []byte) error {
	if err := g.Write(addr, w); err != nil {
		return err
	}
	conn, err := g.connection(addr)
	if err != nil {
		return err
	}
	n, err := conn.Read(r)
	if err != nil {
		return err
	}
	if n != len(r) {
		return fmt.Errorf("failed to read %d bytes from the line, read %d", len(r), n)
	}
	return nil
}

// Close closes the connections opened so far. Gobot adaptors share one
// file per bus between all their connections, so don't call it on a bus
// whose adaptor still serves other devices.
func (g *GobotBus) Close() error {
	var result error
	for addr, conn := range g.conns {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing connection to 0x%02x: %w", uint8(addr), err))
		}
		delete(g.conns, addr)
	}
	return result
}

// RDA5807MDriver is a gobot device for the RDA5807M. Start powers the chip up
// with the configured settings, Halt powers it down.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
type RDA5807MDriver struct {
	name         string
	i2cConnector i2c.Connector
	i2c.Config

	cfg TunerConfig

	mtx   sync.Mutex
	tuner *Driver
}

// NewRDA5807MDriver creates a new GoBot driver for our FM receiver.
func NewRDA5807MDriver(connector i2c.Connector, cfg TunerConfig, options ...func(i2c.Config)) (*RDA5807MDriver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &RDA5807MDriver{
		name:         gobot.DefaultName("RDA5807MDriver"),
		i2cConnector: connector,
		Config:       i2c.NewConfig(),
		cfg:          cfg,
	}

	for _, option := range options {
		option(res)
	}

	return res, nil
}

// Name of our device.
func (r *RDA5807MDriver) Name() string {
	return r.name
}

// SetName set the name of our device.
func (r *RDA5807MDriver) SetName(name string) {
	r.name = name
}

// Connection retrieves the i2c connection to the device.
func (r *RDA5807MDriver) Connection() gobot.Connection {
	return r.i2cConnector.(gobot.Connection)
}

// Tuner is the register driver, nil unless the device is started. It must
// not be used concurrently with Halt, use WithTuner for that.
func (r *RDA5807MDriver) Tuner() *Driver {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.tuner
}

// WithTuner runs fn with the register driver while holding off Halt. It
// returns ErrReleased without calling fn when the device isn't started.
func (r *RDA5807MDriver) WithTuner(fn func(tuner *Driver) error) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.tuner == nil {
		return ErrReleased
	}
	return fn(r.tuner)
}

// Start probes the chip, powers it up and applies the configured volume,
// seek threshold and frequency.
func (r *RDA5807MDriver) Start() error {
	bus := r.GetBusOrDefault(r.i2cConnector.GetDefaultBus())
	addr := Address(r.GetAddressOrDefault(int(r.cfg.Address)))

	options := []Option{WithDefaults(*r.cfg.Defaults)}
	if r.cfg.DebugMode {
		options = append(options, WithDebugLog(r.cfg.DebugLog))
	}
	tuner := New(NewGobotBus(r.i2cConnector, bus), addr, options...)

	found, err := tuner.CheckID()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("couldn't find radio at 0x%02x on bus %d", uint8(addr), bus)
	}

	if err = tuner.Start(); err != nil {
		return err
	}
	if err = tuner.SetSeekThreshold(r.cfg.SeekThreshold); err != nil {
		return err
	}
	if err = tuner.SetVolume(r.cfg.Volume); err != nil {
		return err
	}
	if r.cfg.Frequency != 0 {
		if err = tuner.SetFrequency(r.cfg.Frequency); err != nil {
			return err
		}
	}

	if r.cfg.DebugMode {
		r.cfg.DebugLog("RDA5807M on bus %d at 0x%02x started\n", bus, uint8(addr))
	}
	r.mtx.Lock()
	r.tuner = tuner
	r.mtx.Unlock()
	return nil
}

// Halt powers the chip down and releases the bus. The connections stay
// with the adaptor, which closes them on Finalize.
func (r *RDA5807MDriver) Halt() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.tuner == nil {
		return nil
	}
	err := r.tuner.Stop()
	r.tuner.Destroy()
	r.tuner = nil
	return err
}
