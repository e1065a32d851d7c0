package display

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/oledframe/conn"
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error

	// SetSpeed changes the bus clock.
	SetSpeed(physic.Frequency) error
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Addr is the I²C address.
	Addr uint8

	// Reset pin, nil if the controller has no reset line wired.
	Reset gpio.PinOut
}

var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   0x3c,
}

type i2cConn struct {
	*conn.I2C
	reset gpio.PinOut
}

// OpenI2C opens a connection to a display on the I²C bus.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}

	c, err := conn.OpenI2C(config.Device, config.Addr)
	if err != nil {
		return nil, fmt.Errorf("display: open I²C: %w", err)
	}

	return newI2CConn(c, config.Reset), nil
}

func newI2CConn(c *conn.I2C, reset gpio.PinOut) *i2cConn {
	return &i2cConn{
		I2C:   c,
		reset: reset,
	}
}

func (c *i2cConn) Command(cmnd byte, args ...byte) (err error) {
	logrus.Tracef("display: %s command %#02x % x", c.I2C, cmnd, args)
	_, err = c.I2C.Write(append([]byte{ssd1xxxControlCommand, cmnd}, args...))
	return
}

func (c *i2cConn) Data(data ...byte) (err error) {
	logrus.Tracef("display: %s data %d bytes", c.I2C, len(data))
	_, err = c.I2C.Write(append([]byte{ssd1xxxControlData}, data...))
	return
}

// Reset drives the reset pin, it does nothing if no reset pin is wired.
func (c *i2cConn) Reset(level gpio.Level) error {
	if c.reset == nil || c.reset == gpio.INVALID {
		return nil
	}
	return c.reset.Out(level)
}
