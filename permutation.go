package pixelunsort

import (
	"cmp"
	"image"
	"slices"
)

// A permutation grid holds, for every output cell, the coordinate of the
// source pixel that Gather places there. Scatter applies the same grid the
// other way round.

// axisScratch holds per-worker buffers for sorting one row or column.
type axisScratch struct {
	line  []Coord
	old   []Coord
	keys  []int
	order []int
	pairs []rankedSlot
}

type rankedSlot struct {
	rank int // position after sorting by key
	slot int // position before sorting
}

func newAxisScratch() *axisScratch { return &axisScratch{} }

// sortLine reorders line in place so that keys at the referenced source
// pixels follow order. The sort is stable. It runs in two stages: an index
// array is sorted by key, then the (rank, slot) pairs are sorted back by
// slot, which tells every original slot where its coordinate goes. Each
// coordinate is then written into its new slot, so the line stays a
// permutation of its input.
func sortLine(line []Coord, keyAt func(Coord) uint8, dir int, s *axisScratch) {
	n := len(line)
	if n < 2 {
		return
	}
	s.keys = slices.Grow(s.keys[:0], n)[:n]
	s.order = slices.Grow(s.order[:0], n)[:n]
	for i, c := range line {
		s.keys[i] = dir * int(keyAt(c))
		s.order[i] = i
	}
	slices.SortStableFunc(s.order, func(a, b int) int {
		return cmp.Compare(s.keys[a], s.keys[b])
	})

	s.pairs = slices.Grow(s.pairs[:0], n)[:n]
	for rank, slot := range s.order {
		s.pairs[rank] = rankedSlot{rank: rank, slot: slot}
	}
	slices.SortFunc(s.pairs, func(a, b rankedSlot) int {
		return cmp.Compare(a.slot, b.slot)
	})

	s.old = append(s.old[:0], line...)
	for slot, p := range s.pairs {
		line[p.rank] = s.old[slot]
	}
}

// keyGrid evaluates key once for every pixel of img.
func keyGrid(img *image.NRGBA, key KeyFunc) *Grid[uint8] {
	img = atOrigin(img)
	b := img.Bounds()
	return Generate(b.Dx(), b.Dy(), func(x, y int) uint8 {
		return key(nrgbaAt(img, x, y))
	})
}

func ensureGrid(img *image.NRGBA, g *Grid[Coord]) *Grid[Coord] {
	b := img.Bounds()
	if g == nil {
		return Identity(b.Dx(), b.Dy())
	}
	if g.W != b.Dx() || g.H != b.Dy() {
		panic("pixelunsort: permutation grid does not match image size")
	}
	return g
}

// RowPass sorts every row of g by the key of the src pixel each cell refers
// to. A nil g starts from the identity. g is modified in place and returned.
func RowPass(src *image.NRGBA, key KeyFunc, order SortOrder, g *Grid[Coord], workers int) *Grid[Coord] {
	g = ensureGrid(src, g)
	if g.Empty() {
		return g
	}
	return rowPass(keyGrid(src, key), order, g, workers)
}

// ColumnPass is the column-wise counterpart of RowPass.
func ColumnPass(src *image.NRGBA, key KeyFunc, order SortOrder, g *Grid[Coord], workers int) *Grid[Coord] {
	g = ensureGrid(src, g)
	if g.Empty() {
		return g
	}
	return columnPass(keyGrid(src, key), order, g, workers)
}

func rowPass(keys *Grid[uint8], order SortOrder, g *Grid[Coord], workers int) *Grid[Coord] {
	keyAt := func(c Coord) uint8 { return keys.At(c.X, c.Y) }
	dir := order.Dir()
	parallelFor(workers, g.H, newAxisScratch, func(y int, s *axisScratch) {
		sortLine(g.Row(y), keyAt, dir, s)
	})
	return g
}

func columnPass(keys *Grid[uint8], order SortOrder, g *Grid[Coord], workers int) *Grid[Coord] {
	keyAt := func(c Coord) uint8 { return keys.At(c.X, c.Y) }
	dir := order.Dir()
	parallelFor(workers, g.W, newAxisScratch, func(x int, s *axisScratch) {
		s.line = g.Column(x, s.line)
		sortLine(s.line, keyAt, dir, s)
		g.SetColumn(x, s.line)
	})
	return g
}

// BuildPermutation derives the permutation grid of src for p. Only the
// SortBy, SortKey and the two orders of p are consulted.
func BuildPermutation(src *image.NRGBA, p Params, opt Options) *Grid[Coord] {
	b := src.Bounds()
	g := Identity(b.Dx(), b.Dy())
	if g.Empty() || p.SortBy == Nothing {
		return g
	}
	keys := keyGrid(src, p.SortKey.Func())
	switch p.SortBy {
	case Row:
		rowPass(keys, p.RowOrder, g, opt.Workers)
	case Column:
		columnPass(keys, p.ColOrder, g, opt.Workers)
	case RowCol:
		rowPass(keys, p.RowOrder, g, opt.Workers)
		columnPass(keys, p.ColOrder, g, opt.Workers)
	case ColRow:
		columnPass(keys, p.ColOrder, g, opt.Workers)
		rowPass(keys, p.RowOrder, g, opt.Workers)
	}
	return g
}
