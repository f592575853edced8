package pixelunsort

import (
	"image"
	"image/color"
	"testing"
)

// randImage fills a w×h image with deterministic pseudo-random pixels.
// Channel values are limited to `levels` distinct steps so that keys tie
// often.
func randImage(w, h, levels int, seed uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	state := seed*2654435761 + 1
	next := func() uint8 {
		state = state*1664525 + 1013904223
		step := 255 / max(levels-1, 1)
		return uint8(int(state>>24)%levels*step) & 0xff
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = next()
		img.Pix[i+1] = next()
		img.Pix[i+2] = next()
		img.Pix[i+3] = 255 - uint8(i/4%7)
	}
	return img
}

// grayImage builds an opaque image whose gray levels are given row-major.
func grayImage(w, h int, levels ...uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, v := range levels {
		img.SetNRGBA(i%w, i/w, color.NRGBA{R: v, G: v, B: v, A: 255})
	}
	return img
}

func assertSameImage(t *testing.T, name string, got, want *image.NRGBA) {
	t.Helper()
	if got.Bounds().Size() != want.Bounds().Size() {
		t.Fatalf("%s: size %v, want %v", name, got.Bounds().Size(), want.Bounds().Size())
	}
	w, h := want.Bounds().Dx(), want.Bounds().Dy()
	for y := range h {
		for x := range w {
			g := got.NRGBAAt(got.Rect.Min.X+x, got.Rect.Min.Y+y)
			e := want.NRGBAAt(want.Rect.Min.X+x, want.Rect.Min.Y+y)
			if g != e {
				t.Fatalf("%s: pixel (%d,%d) = %v, want %v", name, x, y, g, e)
			}
		}
	}
}

func assertSameGrid(t *testing.T, name string, got, want *Grid[Coord]) {
	t.Helper()
	if got.W != want.W || got.H != want.H {
		t.Fatalf("%s: grid %dx%d, want %dx%d", name, got.W, got.H, want.W, want.H)
	}
	for i := range want.Cells {
		if got.Cells[i] != want.Cells[i] {
			t.Fatalf("%s: cell (%d,%d) = %v, want %v", name, i%want.W, i/want.W, got.Cells[i], want.Cells[i])
		}
	}
}

var allSortBy = []SortBy{Row, Column, RowCol, ColRow, Nothing}

var testSizes = []image.Point{{1, 1}, {1, 9}, {9, 1}, {2, 2}, {7, 5}, {16, 11}}
