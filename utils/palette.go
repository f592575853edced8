package utils

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	if m == PaletteMethodKMeans {
		return "kmeans"
	}
	return "dominantcolor"
}

func (m PaletteMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *PaletteMethod) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "dominantcolor", "dominant":
		*m = PaletteMethodDominantColor
	case "kmeans":
		*m = PaletteMethodKMeans
	default:
		return fmt.Errorf("utils: unknown palette method %q", text)
	}
	return nil
}

type weightedColor struct {
	col colorful.Color
	w   float64
}

// ExtractPalette returns up to k representative colors of img.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	if method == PaletteMethodKMeans {
		if p := kmeansPalette(img, k); len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
	}
	return dominantPalette(img, k)
}

func dominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	found := dominantcolor.FindWeight(img, max(24, k*8))
	cands := make([]weightedColor, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, weightedColor{col: col.Clamped(), w: c.Weight})
	}
	return pickDiverse(cands, k)
}

func kmeansPalette(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	if k <= 0 || b.Empty() {
		return nil
	}
	// Sample on a grid so large renders stay cheap.
	const maxSamples = 12000
	step := 1
	if n := b.Dx() * b.Dy(); n > maxSamples {
		step = int(math.Sqrt(float64(n)/maxSamples)) + 1
	}
	var obs clusters.Observations
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{
				float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0,
			})
		}
	}
	if len(obs) == 0 {
		return nil
	}
	km := kmeans.New()
	cc, err := km.Partition(obs, min(k*4, len(obs)))
	if err != nil {
		return nil
	}
	cands := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		cands = append(cands, weightedColor{col: col, w: float64(len(c.Observations))})
	}
	return pickDiverse(cands, k)
}

// pickDiverse greedily selects k colors: the heaviest first, then each time
// the candidate farthest in Lab from those already chosen, biased by weight.
func pickDiverse(cands []weightedColor, k int) []colorful.Color {
	if len(cands) == 0 || k <= 0 {
		return nil
	}
	k = min(k, len(cands))
	maxW := 0.0
	for i := range cands {
		cands[i].w = max(cands[i].w, 1e-6)
		maxW = max(maxW, cands[i].w)
	}
	heaviest := 0
	for i, c := range cands {
		if c.w > cands[heaviest].w {
			heaviest = i
		}
	}
	used := make([]bool, len(cands))
	used[heaviest] = true
	out := []colorful.Color{cands[heaviest].col}
	for len(out) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, o := range out {
				nearest = min(nearest, c.col.DistanceLab(o))
			}
			score := nearest * (0.55 + 0.45*math.Sqrt(c.w/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		out = append(out, cands[best].col)
	}
	return out
}

// SortPaletteByBrightness orders colors from darkest to brightest by
// relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	lum := func(c colorful.Color) float64 {
		r, g, b := c.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortStableFunc(palette, func(a, b colorful.Color) int {
		return cmp.Compare(lum(a), lum(b))
	})
}

// SavePalette writes the palette as a strip of tileSize×tileSize swatches.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}
	strip := imaging.New(tileSize*len(palette), tileSize, color.NRGBA{})
	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		tile := imaging.New(tileSize, tileSize, color.NRGBA{R: r, G: g, B: b, A: 255})
		strip = imaging.Paste(strip, tile, image.Pt(i*tileSize, 0))
	}
	return SaveImage(strip, filename)
}
