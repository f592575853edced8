// Command pixelunsort pixel sorts an image, or scatters a second image along
// the sort order of the first.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"time"

	pu "github.com/setanarut/pixelunsort"
	"github.com/setanarut/pixelunsort/utils"
)

// Long side of the preview image written by -preview.
const previewSide = 1200

type config struct {
	sortPath, unsortPath string
	outPath              string
	params               pu.Params
	swap                 bool
	workers              int
	saveMap, loadMap     string
	palettePath          string
	paletteK             int
	paletteMethod        utils.PaletteMethod
	previewPath          string
	stats                bool
	verbose              bool
}

func parseFlags(args []string) (config, error) {
	cfg := config{params: pu.DefaultParams()}
	fs := flag.NewFlagSet("pixelunsort", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pixelunsort -sort <image> [-unsort <image>] [flags]\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.sortPath, "sort", "", "image whose pixels define the sort order (required)")
	fs.StringVar(&cfg.unsortPath, "unsort", "", "image scattered along the sort order (unsort mode)")
	fs.StringVar(&cfg.outPath, "o", "", "output file (.png, .jpg, .qoi, .bmp, .tif); default pixel_unsort_N.png")
	fs.TextVar(&cfg.params.SortBy, "by", cfg.params.SortBy, "axes: row, column, rowcol, colrow, nothing")
	fs.TextVar(&cfg.params.SortKey, "key", cfg.params.SortKey, "key: lightness, hue, saturation, red, green, blue")
	fs.TextVar(&cfg.params.DrawType, "mode", cfg.params.DrawType, "sort or unsort; unsort is implied by -unsort")
	fs.TextVar(&cfg.params.RowOrder, "row-order", cfg.params.RowOrder, "ascending or descending")
	fs.TextVar(&cfg.params.ColOrder, "col-order", cfg.params.ColOrder, "ascending or descending")
	fs.BoolVar(&cfg.params.PreSort, "presort", false, "sort the unsort image before scattering it")
	fs.BoolVar(&cfg.swap, "swap", false, "swap the sort and unsort images")
	fs.IntVar(&cfg.workers, "workers", 0, "goroutines per axis pass (0 = all CPUs)")
	fs.StringVar(&cfg.saveMap, "save-map", "", "write the permutation map to this file")
	fs.StringVar(&cfg.loadMap, "map", "", "scatter -unsort (or -sort) along a saved permutation map")
	fs.StringVar(&cfg.palettePath, "palette", "", "write a palette swatch of the result to this file")
	fs.IntVar(&cfg.paletteK, "palette-k", 7, "number of palette colors")
	fs.TextVar(&cfg.paletteMethod, "palette-method", utils.PaletteMethodDominantColor, "dominantcolor or kmeans")
	fs.StringVar(&cfg.previewPath, "preview", "", "write a downscaled preview to this file")
	fs.BoolVar(&cfg.stats, "stats", false, "print permutation displacement statistics")
	fs.BoolVar(&cfg.verbose, "v", false, "log stage timings")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.swap {
		cfg.sortPath, cfg.unsortPath = cfg.unsortPath, cfg.sortPath
	}
	if cfg.sortPath == "" && cfg.loadMap == "" {
		fs.Usage()
		return cfg, fmt.Errorf("missing -sort image")
	}
	if cfg.unsortPath != "" {
		cfg.params.DrawType = pu.Unsort
	}
	if cfg.params.DrawType == pu.Unsort && cfg.unsortPath == "" && cfg.loadMap == "" {
		return cfg, fmt.Errorf("unsort mode needs an -unsort image")
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "pixelunsort:", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "pixelunsort:", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	var sortImg, unsortImg image.Image
	var err error
	if cfg.sortPath != "" {
		if sortImg, err = utils.ReadImage(cfg.sortPath); err != nil {
			return err
		}
	}
	if cfg.unsortPath != "" {
		if unsortImg, err = utils.ReadImage(cfg.unsortPath); err != nil {
			return err
		}
	}

	opt := pu.DefaultOptions()
	if sortImg != nil {
		opt = pu.OptionsFromSize(sortImg.Bounds().Size())
	}
	if cfg.workers > 0 {
		opt.Workers = cfg.workers
	}
	if cfg.verbose {
		opt.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	start := time.Now()
	var out *image.NRGBA
	var grid *pu.Grid[pu.Coord]
	switch {
	case cfg.loadMap != "":
		if grid, err = utils.LoadPermutation(cfg.loadMap); err != nil {
			return err
		}
		src := unsortImg
		if src == nil {
			src = sortImg
		}
		out = pu.Apply(src, grid, opt)
	default:
		out = pu.Render(sortImg, unsortImg, cfg.params, opt)
		if cfg.saveMap != "" || cfg.stats {
			grid = pu.BuildPermutation(pu.Clone(sortImg), cfg.params, opt)
		}
	}
	fmt.Printf("rendered %dx%d (%s, %s, %s) in %s\n",
		out.Bounds().Dx(), out.Bounds().Dy(), cfg.params.DrawType, cfg.params.SortBy, cfg.params.SortKey, time.Since(start))

	outPath := cfg.outPath
	if outPath == "" {
		outPath = utils.NextFreePath(".", "pixel_unsort", ".png")
	}
	if err := utils.SaveImage(out, outPath); err != nil {
		return fmt.Errorf("save %s: %w", outPath, err)
	}
	fmt.Println("saved", outPath)

	if cfg.saveMap != "" && cfg.loadMap == "" {
		if err := utils.SavePermutation(grid, cfg.saveMap); err != nil {
			return fmt.Errorf("save map: %w", err)
		}
		fmt.Println("saved map", cfg.saveMap)
	}
	if cfg.stats && grid != nil {
		st := pu.Stats(grid)
		fmt.Printf("moved %d/%d pixels, displacement mean=%.2f stddev=%.2f max=%.2f\n",
			st.Moved, st.Cells, st.Mean, st.StdDev, st.Max)
	}
	if cfg.previewPath != "" {
		if err := utils.SavePreview(out, previewSide, cfg.previewPath); err != nil {
			return fmt.Errorf("save preview: %w", err)
		}
	}
	if cfg.palettePath != "" {
		palette := utils.ExtractPalette(out, cfg.paletteK, cfg.paletteMethod)
		utils.SortPaletteByBrightness(palette)
		if err := utils.SavePalette(palette, 64, cfg.palettePath); err != nil {
			log.Println("palette warning:", err)
		}
	}
	return nil
}
