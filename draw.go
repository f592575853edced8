package pixelunsort

import (
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
)

// Params describes one render request.
type Params struct {
	SortBy   SortBy
	SortKey  SortKey
	DrawType DrawType
	RowOrder SortOrder
	ColOrder SortOrder
	// PreSort sorts the resampled unsort image with the direct path before
	// it is scattered. Only used by Unsort.
	PreSort bool
}

func DefaultParams() Params {
	return Params{
		SortBy:   Row,
		SortKey:  Lightness,
		DrawType: Sort,
		RowOrder: Ascending,
		ColOrder: Ascending,
	}
}

type Options struct {
	// Goroutines used per axis pass. 0 means GOMAXPROCS.
	Workers int
	// Filter used to resample the unsort image to the sort image's size.
	// Nil means imaging.CatmullRom.
	Filter *imaging.ResampleFilter
	// Logger receives debug timings. Nil disables logging.
	Logger *slog.Logger
}

func DefaultOptions() Options {
	f := imaging.CatmullRom
	return Options{
		Workers: 0,
		Filter:  &f,
	}
}

// OptionsFromSize returns DefaultOptions tuned for an image of the given
// size. Tiny images are sorted on a single goroutine.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X*size.Y <= 64*64 {
		opt.Workers = 1
	}
	return opt
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) filter() imaging.ResampleFilter {
	if o.Filter == nil {
		return imaging.CatmullRom
	}
	return *o.Filter
}

// Resample scales img to exactly w×h. An empty img yields a transparent
// canvas.
func Resample(img image.Image, w, h int, filter imaging.ResampleFilter) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	}
	if img == nil || img.Bounds().Empty() {
		return imaging.New(w, h, color.NRGBA{})
	}
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, filter)
}

// Render pixel sorts sortImg (DrawType Sort) or scatters unsortImg along
// the permutation of sortImg (DrawType Unsort). The result always has the
// size of sortImg. unsortImg is resampled to that size first and is not
// read in Sort mode, where it may be nil.
func Render(sortImg, unsortImg image.Image, p Params, opt Options) *image.NRGBA {
	log := opt.logger()
	src := Clone(sortImg)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		log.Debug("empty sort image", "width", w, "height", h)
		return image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	key := p.SortKey.Func()

	if p.DrawType == Sort {
		start := time.Now()
		var out *image.NRGBA
		if p.SortBy == Nothing {
			out = Gather(src, Identity(w, h))
		} else {
			out = DirectSort(src, p.SortBy, key, p.RowOrder, p.ColOrder, opt.Workers)
		}
		log.Debug("direct sort", "by", p.SortBy, "key", p.SortKey, "elapsed", time.Since(start))
		return out
	}

	start := time.Now()
	dst := Resample(unsortImg, w, h, opt.filter())
	log.Debug("resample", "width", w, "height", h, "elapsed", time.Since(start))

	if p.PreSort {
		start = time.Now()
		dst = DirectSort(dst, p.SortBy, key, p.RowOrder, p.ColOrder, opt.Workers)
		log.Debug("presort", "by", p.SortBy, "elapsed", time.Since(start))
	}

	start = time.Now()
	grid := BuildPermutation(src, p, opt)
	log.Debug("build permutation", "by", p.SortBy, "key", p.SortKey, "elapsed", time.Since(start))

	start = time.Now()
	out := Scatter(dst, grid)
	log.Debug("scatter", "elapsed", time.Since(start))
	return out
}

// Apply resamples img to the grid's size and scatters it along g. It is
// Render's Unsort step for a permutation that was built, or loaded, earlier.
func Apply(img image.Image, g *Grid[Coord], opt Options) *image.NRGBA {
	if g.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	}
	return Scatter(Resample(img, g.W, g.H, opt.filter()), g)
}
