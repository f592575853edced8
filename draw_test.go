package pixelunsort

import (
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func TestRenderNothingIsIdentity(t *testing.T) {
	sortImg := randImage(8, 5, 256, 1)
	unsortImg := randImage(8, 5, 256, 2)
	p := DefaultParams()
	p.SortBy = Nothing
	assertSameImage(t, "sort", Render(sortImg, unsortImg, p, DefaultOptions()), sortImg)

	p.DrawType = Unsort
	assertSameImage(t, "unsort", Render(sortImg, unsortImg, p, DefaultOptions()), unsortImg)
}

func TestRenderNothingUnsortMatchesResampled(t *testing.T) {
	sortImg := randImage(8, 5, 256, 1)
	unsortImg := randImage(13, 3, 256, 2)
	p := Params{SortBy: Nothing, DrawType: Unsort}
	want := imaging.Resize(unsortImg, 8, 5, imaging.CatmullRom)
	assertSameImage(t, "unsort", Render(sortImg, unsortImg, p, DefaultOptions()), want)
}

func TestRenderOutputSize(t *testing.T) {
	sortImg := randImage(6, 4, 5, 3)
	unsorts := []*image.NRGBA{randImage(13, 9, 5, 4), randImage(2, 17, 5, 5), randImage(6, 4, 5, 6)}
	for _, u := range unsorts {
		for _, by := range allSortBy {
			for _, dt := range []DrawType{Sort, Unsort} {
				p := Params{SortBy: by, SortKey: Hue, DrawType: dt, PreSort: true}
				out := Render(sortImg, u, p, DefaultOptions())
				if out.Bounds() != image.Rect(0, 0, 6, 4) {
					t.Errorf("unsort %v, %v %v: bounds %v", u.Bounds().Size(), by, dt, out.Bounds())
				}
			}
		}
	}
}

func TestRenderSortUsesDirectPath(t *testing.T) {
	img := randImage(10, 7, 4, 8)
	for _, by := range allSortBy {
		p := Params{SortBy: by, SortKey: Saturation, RowOrder: Descending, ColOrder: Ascending}
		got := Render(img, nil, p, DefaultOptions())
		want := Gather(img, BuildPermutation(img, p, DefaultOptions()))
		assertSameImage(t, by.String(), got, want)
	}
}

func TestRenderUnsortScatters(t *testing.T) {
	sortImg := randImage(9, 6, 4, 10)
	unsortImg := randImage(9, 6, 256, 11)
	for _, by := range allSortBy {
		p := Params{SortBy: by, SortKey: Lightness, DrawType: Unsort, RowOrder: Descending}
		want := Scatter(unsortImg, BuildPermutation(sortImg, p, DefaultOptions()))
		assertSameImage(t, by.String(), Render(sortImg, unsortImg, p, DefaultOptions()), want)

		p.PreSort = true
		pre := DirectSort(unsortImg, by, LightnessKey, p.RowOrder, p.ColOrder, 0)
		want = Scatter(pre, BuildPermutation(sortImg, p, DefaultOptions()))
		assertSameImage(t, by.String()+" presort", Render(sortImg, unsortImg, p, DefaultOptions()), want)
	}
}

// Unsorting an image along its own permutation undoes a sort of it.
func TestRenderUnsortUndoesSort(t *testing.T) {
	img := randImage(12, 8, 256, 13)
	p := Params{SortBy: RowCol, SortKey: Hue}
	g := BuildPermutation(img, p, DefaultOptions())
	sorted := Render(img, nil, p, DefaultOptions())
	assertSameImage(t, "apply", Apply(sorted, g, DefaultOptions()), img)
}

func TestRenderEmptyInputs(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	p := Params{SortBy: RowCol, DrawType: Unsort}
	if out := Render(empty, randImage(4, 4, 4, 1), p, DefaultOptions()); !out.Bounds().Empty() {
		t.Errorf("empty sort image rendered to %v", out.Bounds())
	}

	out := Render(randImage(4, 3, 4, 1), empty, p, DefaultOptions())
	if out.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("empty unsort image rendered to %v", out.Bounds())
	}
	for y := range 3 {
		for x := range 4 {
			if c := out.NRGBAAt(x, y); c != (color.NRGBA{}) {
				t.Fatalf("pixel (%d,%d) = %v, want transparent", x, y, c)
			}
		}
	}
}

func TestRenderAcceptsOtherImageTypes(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 9, 8))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 37)
	}
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	p := Params{SortBy: Column, SortKey: Red}
	out := Render(src, nil, p, DefaultOptions())
	if out.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds %v", out.Bounds())
	}
}

func TestRenderLogsStages(t *testing.T) {
	var sb strings.Builder
	opt := DefaultOptions()
	opt.Logger = slog.New(slog.NewTextHandler(&sb, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Render(randImage(4, 4, 4, 1), randImage(3, 3, 4, 2), Params{SortBy: Row, DrawType: Unsort, PreSort: true}, opt)
	for _, stage := range []string{"resample", "presort", "build permutation", "scatter"} {
		if !strings.Contains(sb.String(), stage) {
			t.Errorf("log lacks %q stage:\n%s", stage, sb.String())
		}
	}
}

func TestOptionsFromSize(t *testing.T) {
	if w := OptionsFromSize(image.Pt(16, 16)).Workers; w != 1 {
		t.Errorf("tiny image: %d workers, want 1", w)
	}
	if w := OptionsFromSize(image.Pt(1920, 1080)).Workers; w != 0 {
		t.Errorf("large image: %d workers, want 0", w)
	}
	if f := DefaultOptions().filter(); f.Support != imaging.CatmullRom.Support {
		t.Errorf("default filter support %v", f.Support)
	}
	if f := (Options{}).filter(); f.Support != imaging.CatmullRom.Support {
		t.Errorf("zero options filter support %v", f.Support)
	}
}
