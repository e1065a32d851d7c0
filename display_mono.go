package display

import (
	"github.com/BeatGlow/oledframe/pixel"
)

type monoDisplay struct {
	baseDisplay
	halted bool
}

func (d *monoDisplay) init(config *Config) error {
	d.Image = pixel.NewMonoVerticalLSBImage(config.Width, config.Height)
	d.width = config.Width
	d.height = config.Height
	d.rotation = config.Rotation
	return nil
}

func (d *monoDisplay) Show(show bool) error {
	// NB: don't use d.Refresh here
	if show {
		d.halted = false
		return d.command(ssd1xxxSetDisplayOn)
	}
	return d.command(ssd1xxxSetDisplayOff)
}

func (d *monoDisplay) SetContrast(level uint8) error {
	return d.command(ssd1xxxSetContrast, level)
}
