// Package pixel implements the 1-bit color and image types used by monochrome OLED panels.
//
// The types are compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces, so anything that draws on an image (including font rasterizers) can draw on a
// display buffer.
package pixel
