package pixelunsort

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PermutationStats summarises how far a permutation moves pixels.
type PermutationStats struct {
	Cells  int
	Moved  int     // cells not mapped onto themselves
	Mean   float64 // mean Euclidean displacement in pixels
	StdDev float64
	Max    float64
}

// Stats measures the displacement between every cell of g and the
// coordinate it holds.
func Stats(g *Grid[Coord]) PermutationStats {
	st := PermutationStats{Cells: len(g.Cells)}
	if g.Empty() {
		return st
	}
	d := make([]float64, 0, len(g.Cells))
	for y := range g.H {
		for x, c := range g.Row(y) {
			dx, dy := float64(c.X-x), float64(c.Y-y)
			if dx != 0 || dy != 0 {
				st.Moved++
			}
			d = append(d, math.Hypot(dx, dy))
		}
	}
	st.Mean, st.StdDev = stat.MeanStdDev(d, nil)
	if len(d) < 2 {
		st.StdDev = 0
	}
	st.Max = floats.Max(d)
	return st
}
