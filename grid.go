package pixelunsort

import "fmt"

// Coord is a pixel location. X grows to the right, Y grows downwards.
type Coord struct {
	X, Y int
}

// Grid is a fixed-size, row-major 2D container.
type Grid[T any] struct {
	W, H  int
	Cells []T // len = W*H
}

// NewGrid returns a W×H grid of zero values.
func NewGrid[T any](w, h int) *Grid[T] {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("pixelunsort: negative grid size %dx%d", w, h))
	}
	return &Grid[T]{W: w, H: h, Cells: make([]T, w*h)}
}

// Generate returns a W×H grid whose cell (x, y) holds f(x, y).
func Generate[T any](w, h int, f func(x, y int) T) *Grid[T] {
	g := NewGrid[T](w, h)
	for y := range h {
		row := g.Cells[y*w : (y+1)*w]
		for x := range row {
			row[x] = f(x, y)
		}
	}
	return g
}

// Identity returns the permutation grid that maps every cell onto itself.
func Identity(w, h int) *Grid[Coord] {
	return Generate(w, h, func(x, y int) Coord { return Coord{x, y} })
}

func (g *Grid[T]) offset(x, y int) int {
	if x < 0 || x >= g.W || y < 0 || y >= g.H {
		panic(fmt.Sprintf("pixelunsort: cell (%d,%d) outside %dx%d grid", x, y, g.W, g.H))
	}
	return y*g.W + x
}

func (g *Grid[T]) At(x, y int) T {
	return g.Cells[g.offset(x, y)]
}

func (g *Grid[T]) Set(x, y int, v T) {
	g.Cells[g.offset(x, y)] = v
}

// Row returns row y. The slice aliases the grid storage.
func (g *Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.H {
		panic(fmt.Sprintf("pixelunsort: row %d outside %dx%d grid", y, g.W, g.H))
	}
	return g.Cells[y*g.W : (y+1)*g.W : (y+1)*g.W]
}

// Column copies column x into dst (grown if needed) and returns it.
func (g *Grid[T]) Column(x int, dst []T) []T {
	if x < 0 || x >= g.W {
		panic(fmt.Sprintf("pixelunsort: column %d outside %dx%d grid", x, g.W, g.H))
	}
	dst = dst[:0]
	for y := range g.H {
		dst = append(dst, g.Cells[y*g.W+x])
	}
	return dst
}

// SetColumn writes col back into column x.
func (g *Grid[T]) SetColumn(x int, col []T) {
	if x < 0 || x >= g.W || len(col) != g.H {
		panic(fmt.Sprintf("pixelunsort: column %d (len %d) does not fit %dx%d grid", x, len(col), g.W, g.H))
	}
	for y, v := range col {
		g.Cells[y*g.W+x] = v
	}
}

func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{W: g.W, H: g.H, Cells: make([]T, len(g.Cells))}
	copy(c.Cells, g.Cells)
	return c
}

// Empty reports whether the grid has no cells.
func (g *Grid[T]) Empty() bool {
	return g.W == 0 || g.H == 0
}
