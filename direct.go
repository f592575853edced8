package pixelunsort

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	"github.com/disintegration/imaging"
)

// The direct path sorts pixel buffers without building a permutation grid.
// It is only valid when the sorted image is also the image being drawn.

type keyedPixel struct {
	key int
	px  color.NRGBA
}

// SortRows stable-sorts the pixels of every row of img by key. img is left
// untouched.
func SortRows(img *image.NRGBA, key KeyFunc, order SortOrder, workers int) *image.NRGBA {
	out := Clone(img)
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if w == 0 || h == 0 {
		return out
	}
	dir := order.Dir()
	parallelFor(workers, h, func() []keyedPixel { return make([]keyedPixel, w) }, func(y int, row []keyedPixel) {
		pix := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := range row {
			p := color.NRGBA{R: pix[x*4], G: pix[x*4+1], B: pix[x*4+2], A: pix[x*4+3]}
			row[x] = keyedPixel{key: dir * int(key(p)), px: p}
		}
		slices.SortStableFunc(row, func(a, b keyedPixel) int {
			return cmp.Compare(a.key, b.key)
		})
		for x, kp := range row {
			pix[x*4], pix[x*4+1], pix[x*4+2], pix[x*4+3] = kp.px.R, kp.px.G, kp.px.B, kp.px.A
		}
	})
	return out
}

// SortColumns stable-sorts the pixels of every column of img by key.
// The image is turned 90° clockwise so that columns become rows read bottom
// to top, the rows are sorted with the order negated, and the result is
// turned back. A stable sort of the reversed sequence in the negated order
// is the reverse of the stable sort in the original order, ties included.
func SortColumns(img *image.NRGBA, key KeyFunc, order SortOrder, workers int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Clone(img)
	}
	// imaging rotates counter-clockwise: Rotate270 is a quarter turn clockwise.
	rotated := imaging.Rotate270(img)
	sorted := SortRows(rotated, key, order.Neg(), workers)
	return imaging.Rotate90(sorted)
}

// DirectSort sorts img along the axes selected by by. Nothing returns an
// unchanged copy.
func DirectSort(img *image.NRGBA, by SortBy, key KeyFunc, rowOrder, colOrder SortOrder, workers int) *image.NRGBA {
	switch by {
	case Row:
		return SortRows(img, key, rowOrder, workers)
	case Column:
		return SortColumns(img, key, colOrder, workers)
	case RowCol:
		return SortColumns(SortRows(img, key, rowOrder, workers), key, colOrder, workers)
	case ColRow:
		return SortRows(SortColumns(img, key, colOrder, workers), key, rowOrder, workers)
	default:
		return Clone(img)
	}
}
