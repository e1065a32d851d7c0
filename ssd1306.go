package display

import (
	"fmt"
	"image"

	"github.com/BeatGlow/oledframe/pixel"
)

const (
	ssd1306DefaultWidth    = 128
	ssd1306DefaultHeight   = 64
	ssd1306DefaultContrast = 0xCF
)

// ssd1306Geometry are the panel specific init parameters.
type ssd1306Geometry struct {
	displayClockDiv byte
	comPins         byte
	colStart        byte
	iref            bool // panel needs the internal current reference (0.42" 72x40)
}

var ssd1306Geometries = map[image.Point]ssd1306Geometry{
	{X: 64, Y: 32}:  {displayClockDiv: 0x80, comPins: 0x12, colStart: 32},
	{X: 64, Y: 48}:  {displayClockDiv: 0x80, comPins: 0x12, colStart: 32},
	{X: 72, Y: 40}:  {displayClockDiv: 0x80, comPins: 0x12, colStart: 28, iref: true},
	{X: 96, Y: 16}:  {displayClockDiv: 0x60, comPins: 0x02},
	{X: 128, Y: 32}: {displayClockDiv: 0x80, comPins: 0x02},
	{X: 128, Y: 64}: {displayClockDiv: 0x80, comPins: 0x12},
}

type ssd1306 struct {
	monoDisplay
	pages    int
	colStart byte
	colEnd   byte
}

// SSD1306 is a driver for the Solomon Systech SSD1306 OLED display controller.
//
// The display is initialized and switched on before SSD1306 returns.
func SSD1306(conn Conn, config *Config) (Display, error) {
	d := &ssd1306{
		monoDisplay: monoDisplay{
			baseDisplay: baseDisplay{
				c: conn,
			},
		},
	}

	if config.Width == 0 {
		config.Width = ssd1306DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1306DefaultHeight
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *ssd1306) Close() error {
	if !d.halted {
		if err := d.Show(false); err != nil {
			_ = d.c.Close()
			return err
		}
		d.halted = true
	}
	return d.c.Close()
}

func (d *ssd1306) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1306 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *ssd1306) init(config *Config) (err error) {
	geometry, ok := ssd1306Geometries[image.Pt(config.Width, config.Height)]
	if !ok {
		return fmt.Errorf("display: SSD1306 unsupported size %dx%d", config.Width, config.Height)
	}
	segmentRemap, comScan, err := ssd1306Orientation(config.Rotation)
	if err != nil {
		return err
	}

	// init base
	if err = d.monoDisplay.init(config); err != nil {
		return
	}

	// init paging
	d.pages = d.Image.(*pixel.MonoVerticalLSBImage).Pages()
	d.colStart = geometry.colStart
	d.colEnd = geometry.colStart + byte(config.Width)

	// init display
	if err = d.command(
		ssd1xxxSetDisplayOff,
		ssd1xxxSetDisplayClockDiv, geometry.displayClockDiv,
		ssd1xxxSetMultiplexRatio, byte(config.Height-1),
		ssd1xxxSetDisplayOffset, 0x00,
		ssd1xxxSetStartLine,
		ssd1xxxSetChargePump, 0x14,
		ssd1xxxSetMemoryMode, 0x00, // horizontal addressing, the whole buffer is one transfer
		segmentRemap,
		comScan,
		ssd1xxxSetComPins, geometry.comPins,
		ssd1xxxSetPrecharge, 0xF1,
		ssd1xxxSetVCOMDeselect, 0x40,
		ssd1xxxSetDisplayAllOnResume,
		ssd1xxxSetNormalDisplay,
	); err != nil {
		return
	}
	if geometry.iref {
		if err = d.command(ssd1xxxSetIREF, 0x30); err != nil {
			return
		}
	}

	if err = d.SetContrast(ssd1306DefaultContrast); err != nil {
		return
	}
	if err = d.Refresh(); err != nil {
		return
	}
	return d.Show(true)
}

func ssd1306Orientation(rotation Rotation) (segmentRemap, comScan byte, err error) {
	switch rotation {
	case NoRotation:
		return ssd1xxxSetSegmentRemap, ssd1xxxSetComScanDec, nil
	case Rotate180:
		return ssd1xxxSetSegmentRemapOff, ssd1xxxSetComScanInc, nil
	default:
		return 0, 0, fmt.Errorf("%w %s on SSD1306", ErrRotation, rotation)
	}
}

func (d *ssd1306) SetRotation(rotation Rotation) error {
	segmentRemap, comScan, err := ssd1306Orientation(rotation)
	if err != nil {
		return err
	}
	if err = d.command(segmentRemap, comScan); err != nil {
		return err
	}
	d.rotation = rotation
	return nil
}

// Refresh sends the whole frame buffer in a single data transfer.
func (d *ssd1306) Refresh() error {
	pix := d.Image.(*pixel.MonoVerticalLSBImage).Pix
	if err := d.command(
		ssd1xxxSetColumnAddr, d.colStart, d.colEnd-1,
		ssd1xxxSetPageAddr, 0x00, byte(d.pages-1),
	); err != nil {
		return err
	}
	return d.data(pix...)
}
