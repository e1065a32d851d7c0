// Package font is a registry of the font faces that can be selected by name on a display.
package font

import (
	"errors"
	"fmt"
	"sort"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrUnknownFont is returned for font IDs that are not registered.
var ErrUnknownFont = errors.New("font: unknown font")

// ID names a font face.
type ID string

// Registered fonts.
const (
	GoBold10    ID = "gobold10"    // Go Bold, 10px
	GoRegular10 ID = "goregular10" // Go Regular, 10px
	Basic7x13   ID = "basic7x13"   // fixed 7x13 bitmap
	Bitmap12    ID = "bitmap12"    // 12px bitmap font with wide glyph coverage
)

// Default font, a bold 10 pixel face.
const Default = GoBold10

var faces = map[ID]func() (font.Face, error){
	GoBold10:    trueType(gobold.TTF, 10),
	GoRegular10: trueType(goregular.TTF, 10),
	Basic7x13:   static(basicfont.Face7x13),
	Bitmap12:    static(bitmapfont.Face),
}

func trueType(ttf []byte, size float64) func() (font.Face, error) {
	return func() (font.Face, error) {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, err
		}
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     72, // 1pt == 1px
			Hinting: font.HintingFull,
		}), nil
	}
}

func static(face font.Face) func() (font.Face, error) {
	return func() (font.Face, error) {
		return face, nil
	}
}

// Valid checks if the font ID is registered.
func (id ID) Valid() bool {
	_, ok := faces[id]
	return ok
}

// Face loads the font face for id.
func Face(id ID) (font.Face, error) {
	load, ok := faces[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFont, id)
	}
	face, err := load()
	if err != nil {
		return nil, fmt.Errorf("font: loading %q: %w", id, err)
	}
	return face, nil
}

// IDs returns all registered font IDs in sorted order.
func IDs() []ID {
	ids := make([]ID, 0, len(faces))
	for id := range faces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
