package display

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/oledframe/draw"
	fonts "github.com/BeatGlow/oledframe/font"
	"github.com/BeatGlow/oledframe/pixel"
)

// resetPulse is how long the reset line is held low.
var resetPulse = 10 * time.Millisecond

// Canvas is a full frame buffer handle to a display.
//
// Draw calls compose the off-screen buffer; nothing reaches the panel until SendBuffer is
// called. A Canvas is bound to its connection by NewCanvas, the controller itself is only
// touched once Begin is called.
type Canvas struct {
	conn    Conn
	driver  Driver
	config  Config
	display Display
	face    font.Face
	cursor  image.Point

	// begun is set by the first Begin, successful or not.
	begun bool

	// contrast is applied again whenever the controller is (re)started.
	contrast    uint8
	hasContrast bool
}

// NewCanvas binds a canvas to a display controller on conn.
func NewCanvas(conn Conn, driver Driver, config Config) *Canvas {
	return &Canvas{
		conn:   conn,
		driver: driver,
		config: config,
	}
}

func (c *Canvas) String() string {
	if s, ok := c.display.(fmt.Stringer); ok {
		return fmt.Sprintf("%s on %s", s, c.conn)
	}
	return fmt.Sprintf("%dx%d display on %s", c.Width(), c.Height(), c.conn)
}

// Begin resets and initializes the display controller. Calling Begin on a started canvas is a
// no-op.
func (c *Canvas) Begin() error {
	if c.display != nil {
		return nil
	}
	c.begun = true
	if err := c.conn.Reset(gpio.Low); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	if err := c.conn.Reset(gpio.High); err != nil {
		return err
	}

	d, err := c.driver(c.conn, &c.config)
	if err != nil {
		return err
	}
	c.display = d
	if c.hasContrast {
		return d.SetContrast(c.contrast)
	}
	return nil
}

// SetContrast adjusts the panel contrast. The level is kept and applied by Begin if the
// controller is not started yet.
func (c *Canvas) SetContrast(level uint8) error {
	c.contrast, c.hasContrast = level, true
	if c.display == nil {
		return ErrNotStarted
	}
	return c.display.SetContrast(level)
}

// SetBusClock changes the clock of the bus the display is connected to.
func (c *Canvas) SetBusClock(f physic.Frequency) error {
	return c.conn.SetSpeed(f)
}

// SetFont selects the font used by Printf.
func (c *Canvas) SetFont(id fonts.ID) error {
	face, err := fonts.Face(id)
	if err != nil {
		return err
	}
	c.face = face
	return nil
}

// ClearBuffer clears the off-screen buffer.
func (c *Canvas) ClearBuffer() {
	if c.display != nil {
		c.display.Clear()
	}
}

// DrawFrame draws a one pixel wide w by h rectangle outline at (x,y).
func (c *Canvas) DrawFrame(x, y, w, h int) {
	if c.display != nil {
		draw.Frame(c.display, x, y, w, h, pixel.On)
	}
}

// SetCursor moves the text cursor, y is the text baseline.
func (c *Canvas) SetCursor(x, y int) {
	c.cursor = image.Pt(x, y)
}

// Cursor returns the text cursor position.
func (c *Canvas) Cursor() image.Point {
	return c.cursor
}

// Printf draws formatted text at the cursor and advances the cursor past it.
func (c *Canvas) Printf(format string, args ...any) {
	if c.display == nil || c.face == nil {
		return
	}
	d := font.Drawer{
		Dst:  c.display,
		Src:  image.NewUniform(pixel.On),
		Face: c.face,
		Dot:  fixed.P(c.cursor.X, c.cursor.Y),
	}
	d.DrawString(fmt.Sprintf(format, args...))
	c.cursor.X = d.Dot.X.Round()
}

// SendBuffer transfers the off-screen buffer to the panel. If Begin failed earlier it is tried
// again first; the frame drawn while the controller was down is blank.
func (c *Canvas) SendBuffer() error {
	if c.display == nil {
		if !c.begun {
			return ErrNotStarted
		}
		if err := c.Begin(); err != nil {
			return fmt.Errorf("%w: %w", ErrNotStarted, err)
		}
	}
	return c.display.Refresh()
}

// Width of the display in pixels.
func (c *Canvas) Width() int {
	if c.display != nil {
		return c.display.Bounds().Dx()
	}
	return c.config.Width
}

// Height of the display in pixels.
func (c *Canvas) Height() int {
	if c.display != nil {
		return c.display.Bounds().Dy()
	}
	return c.config.Height
}

// Close switches the panel off and releases the connection.
func (c *Canvas) Close() error {
	if c.display != nil {
		return c.display.Close()
	}
	return c.conn.Close()
}
