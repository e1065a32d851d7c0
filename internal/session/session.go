// Package session runs a display: it brings the panel up once and then redraws a border frame
// with the panel resolution printed inside it, forever.
package session

import (
	"context"
	"errors"
	"image"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"

	display "github.com/BeatGlow/oledframe"
	"github.com/BeatGlow/oledframe/font"
)

// Errors
var (
	ErrNotReady           = errors.New("session: display not initialized")
	ErrAlreadyInitialized = errors.New("session: display already initialized")
)

// Handle is the display capability set used by a session.
type Handle interface {
	// Begin initializes the display controller.
	Begin() error

	SetContrast(level uint8) error
	SetBusClock(physic.Frequency) error
	SetFont(font.ID) error

	// ClearBuffer clears the off-screen buffer.
	ClearBuffer()

	// DrawFrame draws a one pixel wide rectangle outline.
	DrawFrame(x, y, w, h int)

	// SetCursor moves the text cursor, y is the baseline.
	SetCursor(x, y int)

	// Printf draws formatted text at the cursor.
	Printf(format string, args ...any)

	// SendBuffer transfers the off-screen buffer to the panel.
	SendBuffer() error

	Width() int
	Height() int
}

// Binder binds a display handle to the bus and pins in config. It must not talk to the
// controller yet.
type Binder func(Config) (Handle, error)

// Config is the fixed hardware configuration of a session.
type Config struct {
	// Width and Height of the panel in pixels.
	Width, Height int

	// Rotation of the panel.
	Rotation display.Rotation

	// Reset is the reset GPIO pin name, empty if not wired.
	Reset string

	// ChipSelect is always empty, the controller is permanently selected on I²C.
	ChipSelect string

	// Contrast level applied at startup.
	Contrast uint8

	// BusClock applied at startup.
	BusClock physic.Frequency

	// Font used for the label.
	Font font.ID

	// PowerUpDelay is waited before the first bus transaction.
	PowerUpDelay time.Duration

	// Cursor is the label baseline origin.
	Cursor image.Point
}

// DefaultConfig is a 72x40 SSD1306 panel on I²C.
var DefaultConfig = Config{
	Width:        72,
	Height:       40,
	Rotation:     display.NoRotation,
	Contrast:     255,
	BusClock:     400 * physic.KiloHertz,
	Font:         font.Default,
	PowerUpDelay: time.Second,
	Cursor:       image.Pt(15, 25),
}

// State of a session.
type State int

// Session states.
const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Session owns the display handle for the lifetime of the process.
type Session struct {
	config  Config
	handle  Handle
	state   State
	frames  uint64
	failing bool
	wait    func(context.Context, time.Duration) error
	log     logrus.FieldLogger
}

// Option configures a Session.
type Option func(*Session)

// WithSleep replaces the function used to wait for the panel to power up.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *Session) {
		s.wait = func(ctx context.Context, d time.Duration) error {
			sleep(d)
			return ctx.Err()
		}
	}
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WithLogger sets the session logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// Open binds the display handle. The controller is not touched until Initialize.
func Open(config Config, bind Binder, opts ...Option) (*Session, error) {
	handle, err := bind(config)
	if err != nil {
		return nil, err
	}

	s := &Session{
		config: config,
		handle: handle,
		wait:   sleepContext,
		log:    logrus.WithField("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the session state.
func (s *Session) State() State {
	return s.state
}

// Frames is the number of frames rendered so far.
func (s *Session) Frames() uint64 {
	return s.frames
}

// Initialize waits for the panel to power up and applies the configuration. It may only be
// called once. Faults reported by the display are logged and otherwise ignored; every frame
// is sent again anyway.
func (s *Session) Initialize() error {
	return s.initialize(context.Background())
}

func (s *Session) initialize(ctx context.Context) error {
	if s.state != Uninitialized {
		return ErrAlreadyInitialized
	}

	s.log.Debugf("waiting %s for the panel to power up", s.config.PowerUpDelay)
	if err := s.wait(ctx, s.config.PowerUpDelay); err != nil {
		return err
	}

	s.check("begin", s.handle.Begin())
	s.check("set contrast", s.handle.SetContrast(s.config.Contrast))
	s.check("set bus clock", s.handle.SetBusClock(s.config.BusClock))
	s.check("set font", s.handle.SetFont(s.config.Font))

	s.state = Ready
	s.log.WithFields(logrus.Fields{
		"size":     label(s.handle.Width(), s.handle.Height()),
		"contrast": s.config.Contrast,
		"clock":    s.config.BusClock,
		"font":     s.config.Font,
	}).Info("display ready")
	return nil
}

func (s *Session) check(op string, err error) {
	if err != nil {
		s.log.WithError(err).Warnf("%s failed", op)
	}
}

// RenderFrame draws the border and resolution label and sends the frame to the panel.
func (s *Session) RenderFrame() error {
	if s.state != Ready {
		return ErrNotReady
	}

	h := s.handle
	h.ClearBuffer()
	h.DrawFrame(0, 0, h.Width(), h.Height())
	h.SetCursor(s.config.Cursor.X, s.config.Cursor.Y)
	h.Printf(labelFormat, h.Width(), h.Height())
	err := h.SendBuffer()
	s.frames++
	return err
}

// Run initializes the display if needed and renders frames back to back until ctx is done.
// A context that is done during the power-up delay leaves the session uninitialized.
func (s *Session) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.state == Uninitialized {
		if err := s.initialize(ctx); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Debugf("stopped after %d frames", s.frames)
			return ctx.Err()
		default:
		}

		err := s.RenderFrame()
		switch {
		case err != nil && !s.failing:
			s.log.WithError(err).Warn("sending frame failed, retrying")
			s.failing = true
		case err == nil && s.failing:
			s.log.Info("sending frames recovered")
			s.failing = false
		}
	}
}

// Close releases the display handle, if it can be closed.
func (s *Session) Close() error {
	if c, ok := s.handle.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
