package pixelunsort

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// KeyFunc maps a pixel to its ordering key. Implementations must be pure:
// the same pixel always yields the same key. Alpha never takes part.
type KeyFunc func(p color.NRGBA) uint8

// SortKey selects the KeyFunc used for ordering.
type SortKey int

const (
	Lightness SortKey = iota
	Hue
	Saturation
	Red
	Green
	Blue
)

var sortKeyNames = []string{"lightness", "hue", "saturation", "red", "green", "blue"}

// Func returns the key function for k. Unknown keys fall back to Lightness.
func (k SortKey) Func() KeyFunc {
	switch k {
	case Hue:
		return HueKey
	case Saturation:
		return SaturationKey
	case Red:
		return RedKey
	case Green:
		return GreenKey
	case Blue:
		return BlueKey
	default:
		return LightnessKey
	}
}

func (k SortKey) String() string { return enumString(sortKeyNames, int(k)) }

func (k SortKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *SortKey) UnmarshalText(text []byte) error {
	v, err := parseEnum("sort key", sortKeyNames, map[string]int{
		"luma": int(Lightness), "sat": int(Saturation), "r": int(Red), "g": int(Green), "b": int(Blue),
	}, text)
	if err != nil {
		return err
	}
	*k = SortKey(v)
	return nil
}

// LightnessKey is the Rec. 709 luma of the gamma-encoded channels,
// 0.2126 R + 0.7152 G + 0.0722 B, in integer arithmetic.
func LightnessKey(p color.NRGBA) uint8 {
	return uint8((2126*uint32(p.R) + 7152*uint32(p.G) + 722*uint32(p.B)) / 10000)
}

// HueKey is the HSV hue angle scaled from [0, 360) to [0, 255].
func HueKey(p color.NRGBA) uint8 {
	h, _, _ := toColorful(p).Hsv()
	return uint8(min(255, max(0, math.Floor(h*256/360))))
}

// SaturationKey is the HSV saturation scaled to [0, 255].
func SaturationKey(p color.NRGBA) uint8 {
	_, s, _ := toColorful(p).Hsv()
	return uint8(min(255, max(0, math.Round(s*255))))
}

func RedKey(p color.NRGBA) uint8   { return p.R }
func GreenKey(p color.NRGBA) uint8 { return p.G }
func BlueKey(p color.NRGBA) uint8  { return p.B }

func toColorful(p color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(p.R) / 255.0,
		G: float64(p.G) / 255.0,
		B: float64(p.B) / 255.0,
	}
}
