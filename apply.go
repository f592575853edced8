package pixelunsort

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Clone returns a copy of img as NRGBA with its origin at (0, 0). A nil
// image yields an empty one.
func Clone(img image.Image) *image.NRGBA {
	if img == nil {
		return &image.NRGBA{}
	}
	return imaging.Clone(img)
}

// atOrigin returns img itself when it starts at (0, 0), or a copy that does.
func atOrigin(img *image.NRGBA) *image.NRGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	return Clone(img)
}

func nrgbaAt(img *image.NRGBA, x, y int) color.NRGBA {
	i := y*img.Stride + x*4
	s := img.Pix[i : i+4 : i+4]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

func copyPixel(dst *image.NRGBA, dx, dy int, src *image.NRGBA, sx, sy int) {
	di := dy*dst.Stride + dx*4
	si := sy*src.Stride + sx*4
	copy(dst.Pix[di:di+4], src.Pix[si:si+4])
}

func checkShape(img *image.NRGBA, g *Grid[Coord]) {
	b := img.Bounds()
	if b.Dx() != g.W || b.Dy() != g.H {
		panic(fmt.Sprintf("pixelunsort: %v image does not match %dx%d grid", b, g.W, g.H))
	}
}

// Gather reads the pixel at g(x, y) and writes it to (x, y).
func Gather(src *image.NRGBA, g *Grid[Coord]) *image.NRGBA {
	checkShape(src, g)
	src = atOrigin(src)
	out := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := range g.H {
		for x, c := range g.Row(y) {
			copyPixel(out, x, y, src, c.X, c.Y)
		}
	}
	return out
}

// Scatter reads the pixel at (x, y) and writes it to g(x, y). It is the
// inverse of Gather for the same grid.
func Scatter(src *image.NRGBA, g *Grid[Coord]) *image.NRGBA {
	checkShape(src, g)
	src = atOrigin(src)
	out := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := range g.H {
		for x, c := range g.Row(y) {
			copyPixel(out, c.X, c.Y, src, x, y)
		}
	}
	return out
}

// IsPermutation reports whether every coordinate of the grid's own shape
// appears exactly once.
func IsPermutation(g *Grid[Coord]) bool {
	seen := make([]bool, len(g.Cells))
	for _, c := range g.Cells {
		if c.X < 0 || c.X >= g.W || c.Y < 0 || c.Y >= g.H {
			return false
		}
		i := c.Y*g.W + c.X
		if seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// Invert returns the grid h with h(g(x, y)) = (x, y), so that
// Gather(img, g.Invert()) equals Scatter(img, g). g must be a permutation.
func Invert(g *Grid[Coord]) *Grid[Coord] {
	inv := NewGrid[Coord](g.W, g.H)
	for y := range g.H {
		for x, c := range g.Row(y) {
			inv.Set(c.X, c.Y, Coord{x, y})
		}
	}
	return inv
}
