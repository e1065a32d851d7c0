package draw

import (
	"image"
	"image/color"
	"testing"
)

func countSet(img *image.Gray) (n int) {
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return
}

func TestFrame(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		want       int
	}{
		{"72x40", 0, 0, 72, 40, 2*72 + 2*40 - 4},
		{"128x64", 0, 0, 128, 64, 2*128 + 2*64 - 4},
		{"inset", 2, 3, 10, 5, 2*10 + 2*5 - 4},
		{"single pixel", 4, 4, 1, 1, 1},
		{"empty", 0, 0, 0, 10, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			img := image.NewGray(image.Rect(0, 0, 128, 64))
			Frame(img, test.x, test.y, test.w, test.h, color.White)
			if n := countSet(img); n != test.want {
				it.Fatalf("expected %d pixels set, got %d", test.want, n)
			}
			if test.w == 0 || test.h == 0 {
				return
			}
			corners := []image.Point{
				{test.x, test.y},
				{test.x + test.w - 1, test.y},
				{test.x, test.y + test.h - 1},
				{test.x + test.w - 1, test.y + test.h - 1},
			}
			for _, p := range corners {
				if img.GrayAt(p.X, p.Y).Y == 0 {
					it.Errorf("expected corner %s to be set", p)
				}
			}
			if test.w > 2 && test.h > 2 {
				if img.GrayAt(test.x+1, test.y+1).Y != 0 {
					it.Errorf("expected interior to be clear")
				}
			}
		})
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		a, b image.Point
		want int
	}{
		{"point", image.Pt(1, 1), image.Pt(1, 1), 1},
		{"horizontal", image.Pt(0, 0), image.Pt(9, 0), 10},
		{"vertical reversed", image.Pt(3, 9), image.Pt(3, 0), 10},
		{"diagonal", image.Pt(0, 0), image.Pt(7, 7), 8},
		{"shallow", image.Pt(0, 0), image.Pt(9, 3), 10},
		{"steep", image.Pt(0, 9), image.Pt(3, 0), 10},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			img := image.NewGray(image.Rect(0, 0, 16, 16))
			bresenham(img, test.a.X, test.a.Y, test.b.X, test.b.Y, color.White)
			if n := countSet(img); n != test.want {
				it.Errorf("expected %d pixels set, got %d", test.want, n)
			}
			if img.GrayAt(test.a.X, test.a.Y).Y == 0 || img.GrayAt(test.b.X, test.b.Y).Y == 0 {
				it.Error("expected both end points to be set")
			}
		})
	}
}
