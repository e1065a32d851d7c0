package display

import (
	"bytes"
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/oledframe/pixel"
)

// testConn records everything sent to the controller.
type testConn struct {
	commands [][]byte
	data     [][]byte
	resets   []gpio.Level
	speed    physic.Frequency
	closed   bool
	err      error
}

func (c *testConn) String() string { return "test" }

func (c *testConn) Close() error {
	c.closed = true
	return nil
}

func (c *testConn) Reset(level gpio.Level) error {
	c.resets = append(c.resets, level)
	return nil
}

func (c *testConn) Command(cmnd byte, args ...byte) error {
	if c.err != nil {
		return c.err
	}
	c.commands = append(c.commands, append([]byte{cmnd}, args...))
	return nil
}

func (c *testConn) Data(data ...byte) error {
	if c.err != nil {
		return c.err
	}
	c.data = append(c.data, append([]byte(nil), data...))
	return nil
}

func (c *testConn) SetSpeed(f physic.Frequency) error {
	c.speed = f
	return nil
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in      string
		want    Rotation
		wantErr bool
	}{
		{"", NoRotation, false},
		{"0", NoRotation, false},
		{"cw", Rotate90, false},
		{"FLIP", Rotate180, false},
		{"270", Rotate270, false},
		{"sideways", NoRotation, true},
	}
	for _, test := range tests {
		t.Run(test.in, func(it *testing.T) {
			r, err := ParseRotation(test.in)
			if test.wantErr {
				if !errors.Is(err, ErrRotation) {
					it.Fatalf("expected ErrRotation, got %v", err)
				}
				return
			}
			if err != nil {
				it.Fatal(err)
			}
			if r != test.want {
				it.Errorf("expected %s, got %s", test.want, r)
			}
		})
	}
}

func TestSSD1306(t *testing.T) {
	c := new(testConn)
	d, err := SSD1306(c, &Config{Width: 72, Height: 40})
	if err != nil {
		t.Fatal(err)
	}

	if v := d.Bounds().Size(); v.X != 72 || v.Y != 40 {
		t.Fatalf("expected 72x40, got %s", v)
	}

	seq := c.commands[0]
	if seq[0] != ssd1xxxSetDisplayOff {
		t.Errorf("expected init to start with display off, got %#02x", seq[0])
	}
	if i := bytes.IndexByte(seq, ssd1xxxSetMultiplexRatio); i < 0 || seq[i+1] != 39 {
		t.Errorf("expected multiplex ratio 39 in %x", seq)
	}
	if !containsCommand(c.commands, ssd1xxxSetIREF, 0x30) {
		t.Error("expected 72x40 panel to enable the internal current reference")
	}
	if !containsCommand(c.commands, ssd1xxxSetColumnAddr, 28, 99, ssd1xxxSetPageAddr, 0, 4) {
		t.Errorf("expected column window 28..99 and pages 0..4, got %x", c.commands)
	}
	if last := c.commands[len(c.commands)-1]; last[0] != ssd1xxxSetDisplayOn {
		t.Errorf("expected display on last, got %#02x", last[0])
	}
	if len(c.data) != 1 || len(c.data[0]) != 72*5 {
		t.Fatalf("expected one data transfer of %d bytes, got %d transfers", 72*5, len(c.data))
	}
}

func TestSSD1306Refresh(t *testing.T) {
	c := new(testConn)
	d, err := SSD1306(c, &Config{Width: 128, Height: 64})
	if err != nil {
		t.Fatal(err)
	}
	c.data = nil

	d.Set(0, 0, pixel.On)
	d.Set(127, 63, pixel.On)
	if err = d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if len(c.data) != 1 {
		t.Fatalf("expected a single data transfer, got %d", len(c.data))
	}
	frame := c.data[0]
	if len(frame) != 128*8 {
		t.Fatalf("expected %d bytes, got %d", 128*8, len(frame))
	}
	if frame[0] != 0x01 || frame[len(frame)-1] != 0x80 {
		t.Errorf("unexpected frame corners %#02x %#02x", frame[0], frame[len(frame)-1])
	}
}

func TestSSD1306Unsupported(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		err    error
	}{
		{"size", Config{Width: 100, Height: 20}, nil},
		{"rotate 90", Config{Width: 72, Height: 40, Rotation: Rotate90}, ErrRotation},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			c := new(testConn)
			config := test.config
			if _, err := SSD1306(c, &config); err == nil {
				it.Fatal("expected error")
			} else if test.err != nil && !errors.Is(err, test.err) {
				it.Fatalf("expected %v, got %v", test.err, err)
			}
			if len(c.commands) != 0 {
				it.Errorf("expected no commands sent, got %x", c.commands)
			}
		})
	}
}

func TestSSD1306Defaults(t *testing.T) {
	config := new(Config)
	d, err := SSD1306(new(testConn), config)
	if err != nil {
		t.Fatal(err)
	}
	if config.Width != 128 || config.Height != 64 {
		t.Errorf("expected default size 128x64, got %dx%d", config.Width, config.Height)
	}
	if v := d.Bounds().Dx(); v != 128 {
		t.Errorf("expected width 128, got %d", v)
	}
}

func TestSSD1306Rotation(t *testing.T) {
	c := new(testConn)
	d, err := SSD1306(c, &Config{Width: 72, Height: 40, Rotation: Rotate180})
	if err != nil {
		t.Fatal(err)
	}
	seq := c.commands[0]
	if bytes.IndexByte(seq, ssd1xxxSetSegmentRemapOff) < 0 || bytes.IndexByte(seq, ssd1xxxSetComScanInc) < 0 {
		t.Errorf("expected flipped orientation in %x", seq)
	}

	if err = d.SetRotation(NoRotation); err != nil {
		t.Fatal(err)
	}
	if !containsCommand(c.commands, ssd1xxxSetSegmentRemap, ssd1xxxSetComScanDec) {
		t.Error("expected orientation to be restored")
	}
	if err = d.SetRotation(Rotate270); !errors.Is(err, ErrRotation) {
		t.Errorf("expected ErrRotation, got %v", err)
	}
}

func TestSSD1306Close(t *testing.T) {
	c := new(testConn)
	d, err := SSD1306(c, &Config{Width: 72, Height: 40})
	if err != nil {
		t.Fatal(err)
	}
	c.commands = nil
	if err = d.Close(); err != nil {
		t.Fatal(err)
	}
	if !c.closed {
		t.Error("expected connection to be closed")
	}
	if len(c.commands) != 1 || c.commands[0][0] != ssd1xxxSetDisplayOff {
		t.Errorf("expected display off on close, got %x", c.commands)
	}
}

func TestSSD1306Contrast(t *testing.T) {
	c := new(testConn)
	d, err := SSD1306(c, &Config{Width: 72, Height: 40})
	if err != nil {
		t.Fatal(err)
	}
	if err = d.SetContrast(255); err != nil {
		t.Fatal(err)
	}
	if !containsCommand(c.commands, ssd1xxxSetContrast, 0xff) {
		t.Errorf("expected contrast command, got %x", c.commands)
	}
}

func containsCommand(commands [][]byte, want ...byte) bool {
	for _, command := range commands {
		if bytes.Equal(command, want) {
			return true
		}
	}
	return false
}
