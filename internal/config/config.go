// Package config loads the oledframe configuration.
//
// Every setting has a compiled-in default; a YAML file can override any of them and command
// line flags override the file.
package config

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	display "github.com/BeatGlow/oledframe"
	"github.com/BeatGlow/oledframe/font"
	"github.com/BeatGlow/oledframe/internal/session"
)

// DebugEnv enables bus level tracing when set to a non-empty value.
const DebugEnv = "DISPLAY_DEBUG"

// Errors
var (
	ErrContrast = errors.New("config: contrast must be between 0 and 255")
	ErrBusClock = errors.New("config: bus clock must be positive")
	ErrSize     = errors.New("config: width and height must be positive")
	ErrI2CAddr  = errors.New("config: I²C address must be a 7-bit address")
)

// maxI2CAddr is the highest 7-bit I²C address.
const maxI2CAddr = 0x7f

// I2C is the bus the display is on.
type I2C struct {
	// Device number, -1 for the first available bus.
	Device int `yaml:"device"`

	// Addr is the 7-bit device address.
	Addr uint8 `yaml:"addr"`
}

// Point is a pixel position.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Config is the file representation of the configuration.
type Config struct {
	I2C          I2C           `yaml:"i2c"`
	Reset        string        `yaml:"reset"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Rotation     string        `yaml:"rotation"`
	Contrast     int           `yaml:"contrast"`
	BusClockHz   int64         `yaml:"bus_clock_hz"`
	Font         string        `yaml:"font"`
	PowerUpDelay time.Duration `yaml:"power_up_delay"`
	Cursor       Point         `yaml:"cursor"`
	Debug        bool          `yaml:"debug"`
	Trace        bool          `yaml:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	d := session.DefaultConfig
	return &Config{
		I2C: I2C{
			Device: display.DefaultI2CConfig.Device,
			Addr:   display.DefaultI2CConfig.Addr,
		},
		Reset:        d.Reset,
		Width:        d.Width,
		Height:       d.Height,
		Rotation:     "0",
		Contrast:     int(d.Contrast),
		BusClockHz:   int64(d.BusClock / physic.Hertz),
		Font:         string(d.Font),
		PowerUpDelay: d.PowerUpDelay,
		Cursor:       Point{X: d.Cursor.X, Y: d.Cursor.Y},
		Trace:        os.Getenv(DebugEnv) != "",
	}
}

// Load reads the configuration file at path on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err = c.Parse(raw); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML over the current values.
func (c *Config) Parse(raw []byte) error {
	return yaml.Unmarshal(raw, c)
}

// SetI2CAddr sets the I²C device address, which must fit in 7 bits.
func (c *Config) SetI2CAddr(addr uint) error {
	if addr > maxI2CAddr {
		return fmt.Errorf("%w, got %#x", ErrI2CAddr, addr)
	}
	c.I2C.Addr = uint8(addr)
	return nil
}

// Validate checks the values are usable.
func (c *Config) Validate() error {
	_, err := c.Session()
	return err
}

// Session converts the configuration into a session configuration.
func (c *Config) Session() (session.Config, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return session.Config{}, fmt.Errorf("%w, got %dx%d", ErrSize, c.Width, c.Height)
	}
	if c.Contrast < 0 || c.Contrast > 255 {
		return session.Config{}, fmt.Errorf("%w, got %d", ErrContrast, c.Contrast)
	}
	if c.BusClockHz <= 0 {
		return session.Config{}, fmt.Errorf("%w, got %d", ErrBusClock, c.BusClockHz)
	}
	if c.I2C.Addr > maxI2CAddr {
		return session.Config{}, fmt.Errorf("%w, got %#x", ErrI2CAddr, c.I2C.Addr)
	}
	rotation, err := display.ParseRotation(c.Rotation)
	if err != nil {
		return session.Config{}, err
	}
	// The SSD1306 can only mirror both axes.
	if rotation != display.NoRotation && rotation != display.Rotate180 {
		return session.Config{}, fmt.Errorf("%w %s on SSD1306", display.ErrRotation, rotation)
	}
	id := font.ID(c.Font)
	if !id.Valid() {
		return session.Config{}, fmt.Errorf("%w %q, choose one of %v", font.ErrUnknownFont, c.Font, font.IDs())
	}

	return session.Config{
		Width:        c.Width,
		Height:       c.Height,
		Rotation:     rotation,
		Reset:        c.Reset,
		Contrast:     uint8(c.Contrast),
		BusClock:     physic.Frequency(c.BusClockHz) * physic.Hertz,
		Font:         id,
		PowerUpDelay: c.PowerUpDelay,
		Cursor:       image.Pt(c.Cursor.X, c.Cursor.Y),
	}, nil
}
