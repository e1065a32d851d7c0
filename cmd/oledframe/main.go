// Command oledframe shows the resolution of an I²C OLED panel inside a border, forever.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	display "github.com/BeatGlow/oledframe"
	"github.com/BeatGlow/oledframe/font"
	"github.com/BeatGlow/oledframe/internal/config"
	"github.com/BeatGlow/oledframe/internal/session"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	defaults := config.Default()

	configFlag := flag.String("c", "", "YAML configuration file")
	debugFlag := flag.Bool("d", false, "Enable debug logging")
	i2cDeviceFlag := flag.Int("i2c-dev", defaults.I2C.Device, "I²C device number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(defaults.I2C.Addr), "I²C device address (7-bit)")
	resetPinFlag := flag.String("reset", "", "Reset GPIO pin (default: not wired)")
	rotateFlag := flag.String("rotate", "", "Display rotation (0 or 180)")
	contrastFlag := flag.Int("contrast", defaults.Contrast, "Contrast level (0-255)")
	fontFlag := flag.String("font", defaults.Font, fmt.Sprintf("Label font, one of %v", font.IDs()))
	flag.Parse()

	c, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "d":
			c.Debug = *debugFlag
		case "i2c-dev":
			c.I2C.Device = *i2cDeviceFlag
		case "i2c-addr":
			err = c.SetI2CAddr(*i2cAddrFlag)
		case "reset":
			c.Reset = *resetPinFlag
		case "rotate":
			c.Rotation = *rotateFlag
		case "contrast":
			c.Contrast = *contrastFlag
		case "font":
			c.Font = *fontFlag
		}
	})
	if err != nil {
		fatal(err)
	}

	switch {
	case c.Trace:
		logrus.SetLevel(logrus.TraceLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
	case c.Debug:
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Debug("debug mode activated")
	}

	sessionConfig, err := c.Session()
	if err != nil {
		fatal(err)
	}

	if _, err = host.Init(); err != nil {
		fatal(err)
	}

	s, err := session.Open(sessionConfig, bindI2C(c.I2C))
	if err != nil {
		fatal(err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logrus.WithError(err).Warn("closing display failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.Info("hit control-c to stop...")
	if err = s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Error("display session stopped")
	}
	logrus.Infof("stopped after %d frames", s.Frames())
}

// bindI2C binds an SSD1306 canvas on the I²C bus.
func bindI2C(bus config.I2C) session.Binder {
	return func(c session.Config) (session.Handle, error) {
		var reset gpio.PinOut
		if c.Reset != "" {
			if reset = gpioreg.ByName(c.Reset); reset == nil {
				return nil, fmt.Errorf("reset pin %q does not exist", c.Reset)
			}
		}

		conn, err := display.OpenI2C(&display.I2CConfig{
			Device: bus.Device,
			Addr:   bus.Addr,
			Reset:  reset,
		})
		if err != nil {
			return nil, err
		}
		logrus.Infof("using connection: %s", conn)

		return display.NewCanvas(conn, display.SSD1306, display.Config{
			Width:    c.Width,
			Height:   c.Height,
			Rotation: c.Rotation,
		}), nil
	}
}

func fatal(err error) {
	logrus.Fatal("fatal: " + err.Error())
}
