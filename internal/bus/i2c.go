package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// I2C is a Bus backed by a Linux I2C adapter.
type I2C struct {
	bus i2c.BusCloser
	dev *i2c.Dev
	buf [MaxChunk + 1]byte
}

// OpenI2C initializes the host drivers and opens the named adapter
// ("1" for /dev/i2c-1, "" for the first available one).
func OpenI2C(name string, addr uint16) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("bus: host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("bus: open i2c %q: %w", name, err)
	}
	return &I2C{
		bus: b,
		dev: &i2c.Dev{Bus: b, Addr: addr},
	}, nil
}

func (c *I2C) Command(b byte) error {
	if c.bus == nil {
		return &Error{Op: "command", Register: ControlCommand, Wrapped: ErrClosed}
	}
	c.buf[0] = ControlCommand
	c.buf[1] = b
	if err := c.dev.Tx(c.buf[:2], nil); err != nil {
		return &Error{Op: "command", Register: ControlCommand, Wrapped: err}
	}
	return nil
}

func (c *I2C) Data(p []byte) error {
	if c.bus == nil {
		return &Error{Op: "data", Register: ControlData, Wrapped: ErrClosed}
	}
	if len(p) > MaxChunk {
		return &Error{Op: "data", Register: ControlData, Wrapped: ErrChunkTooLarge}
	}
	c.buf[0] = ControlData
	n := copy(c.buf[1:], p)
	if err := c.dev.Tx(c.buf[:n+1], nil); err != nil {
		return &Error{Op: "data", Register: ControlData, Wrapped: err}
	}
	return nil
}

// Close releases the adapter. Calling it twice is harmless.
func (c *I2C) Close() error {
	if c.bus == nil {
		return nil
	}
	err := c.bus.Close()
	c.bus = nil
	return err
}

func (c *I2C) String() string {
	return c.dev.String()
}
