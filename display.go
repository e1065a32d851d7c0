// Package display contains drivers for monochrome OLED displays.
package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/BeatGlow/oledframe/draw"
	"github.com/BeatGlow/oledframe/pixel"
)

// Errors
var (
	ErrRotation   = errors.New("display: unsupported rotation")
	ErrNotStarted = errors.New("display: not started")
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// ParseRotation parses a rotation as accepted on the command line.
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(s) {
	case "", "no", "0":
		return NoRotation, nil
	case "90", "right", "cw":
		return Rotate90, nil
	case "180", "flip":
		return Rotate180, nil
	case "270", "left", "ccw":
		return Rotate270, nil
	default:
		return NoRotation, fmt.Errorf("%w %q", ErrRotation, s)
	}
}

// Display is an OLED display.
type Display interface {
	// Close the display driver.
	Close() error

	// Clear the display buffer.
	Clear()

	// At returns the color of the pixel at (x, y).
	At(x, y int) color.Color

	// Set the pixel color at (x, y).
	Set(x, y int, c color.Color)

	// Bounds is the display bounding box (dimensions).
	Bounds() image.Rectangle

	// ColorModel used by the display.
	ColorModel() color.Model

	// Show toggles the display on or off.
	Show(bool) error

	// SetContrast adjusts the contrast level.
	SetContrast(level uint8) error

	// SetRotation adjusts the pixel rotation.
	SetRotation(Rotation) error

	// Refresh redraws the display.
	Refresh() error
}

// Driver constructs and initializes a display on a connection.
type Driver func(Conn, *Config) (Display, error)

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Rotation of the display.
	Rotation Rotation
}

type baseDisplay struct {
	draw.Image
	c        Conn
	width    int
	height   int
	rotation Rotation
}

func (d *baseDisplay) data(data ...byte) error {
	return d.c.Data(data...)
}

func (d *baseDisplay) command(command byte, data ...byte) error {
	return d.c.Command(command, data...)
}

func (d *baseDisplay) Clear() {
	if i, ok := d.Image.(pixel.Image); ok {
		i.Clear()
	}
}
