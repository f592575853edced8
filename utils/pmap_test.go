package utils

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	pu "github.com/setanarut/pixelunsort"
)

func testPermutation(w, h int) *pu.Grid[pu.Coord] {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 97 % 251)
	}
	return pu.BuildPermutation(img, pu.Params{SortBy: pu.RowCol, SortKey: pu.Hue}, pu.DefaultOptions())
}

func TestPermutationRoundTrip(t *testing.T) {
	for _, size := range []image.Point{{0, 0}, {1, 1}, {17, 9}} {
		g := testPermutation(size.X, size.Y)
		var buf bytes.Buffer
		if err := EncodePermutation(&buf, g); err != nil {
			t.Fatalf("%v: encode: %v", size, err)
		}
		back, err := DecodePermutation(&buf)
		if err != nil {
			t.Fatalf("%v: decode: %v", size, err)
		}
		if back.W != g.W || back.H != g.H {
			t.Fatalf("%v: decoded %dx%d", size, back.W, back.H)
		}
		for i := range g.Cells {
			if back.Cells[i] != g.Cells[i] {
				t.Fatalf("%v: cell %d = %v, want %v", size, i, back.Cells[i], g.Cells[i])
			}
		}
	}
}

func TestPermutationFile(t *testing.T) {
	g := testPermutation(6, 5)
	path := filepath.Join(t.TempDir(), "map.pmap")
	if err := SavePermutation(g, path); err != nil {
		t.Fatal(err)
	}
	back, err := LoadPermutation(path)
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 6, 5))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	a, b := pu.Scatter(img, g), pu.Scatter(img, back)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("loaded map scatters differently")
	}
}

func TestDecodePermutationErrors(t *testing.T) {
	if _, err := DecodePermutation(bytes.NewReader([]byte("NOPE\x00\x00\x00\x01\x00\x00\x00\x01"))); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("bad magic: %v", err)
	}
	if _, err := DecodePermutation(bytes.NewReader([]byte("PMAP"))); err == nil {
		t.Error("truncated header decoded")
	}

	dup := &pu.Grid[pu.Coord]{W: 2, H: 1, Cells: []pu.Coord{{0, 0}, {0, 0}}}
	var buf bytes.Buffer
	if err := EncodePermutation(&buf, dup); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodePermutation(&buf); !errors.Is(err, ErrCorruptMap) {
		t.Errorf("duplicate coordinates: %v", err)
	}

	// Header claims more cells than the payload holds.
	buf.Reset()
	if err := EncodePermutation(&buf, pu.Identity(2, 2)); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	data[11] = 3
	if _, err := DecodePermutation(bytes.NewReader(data)); !errors.Is(err, ErrCorruptMap) {
		t.Errorf("size mismatch: %v", err)
	}
}

func TestSaveAndReadImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y := range 3 {
		for x := range 5 {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 50), uint8(y * 80), 7, 255})
		}
	}
	dir := t.TempDir()
	for _, ext := range []string{".png", ".qoi", ".bmp", ".tif"} {
		path := filepath.Join(dir, "out"+ext)
		if err := SaveImage(img, path); err != nil {
			t.Fatalf("%s: save: %v", ext, err)
		}
		back, err := ReadImage(path)
		if err != nil {
			t.Fatalf("%s: read: %v", ext, err)
		}
		for y := range 3 {
			for x := range 5 {
				got := color.NRGBAModel.Convert(back.At(back.Bounds().Min.X+x, back.Bounds().Min.Y+y))
				if got != img.At(x, y) {
					t.Fatalf("%s: pixel (%d,%d) = %v, want %v", ext, x, y, got, img.At(x, y))
				}
			}
		}
	}
	if err := SaveImage(img, filepath.Join(dir, "out.xyz")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unknown extension: %v", err)
	}
}

func TestNextFreePath(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	for want := range 3 {
		p := NextFreePath(dir, "pixel_unsort", ".png")
		if p != filepath.Join(dir, "pixel_unsort_"+string(rune('0'+want))+".png") {
			t.Fatalf("got %s at step %d", p, want)
		}
		if err := SaveImage(img, p); err != nil {
			t.Fatal(err)
		}
	}
}
