package flamegraph

import (
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is the colour type handed to a Canvas.
type Color = colorful.Color

var (
	RootColor      = rgb(0xc0, 0xc0, 0xc0)
	GreyedColor    = rgb(0xd9, 0xd9, 0xd9)
	ThumbnailColor = rgb(0x8a, 0xb4, 0xf8)
	TextColor      = rgb(0x00, 0x00, 0x00)
	BorderColor    = rgb(0xff, 0xff, 0xff)
	TooltipColor   = rgb(0xf7, 0xf7, 0xf7)
	TooltipText    = rgb(0x33, 0x33, 0x33)
)

func rgb(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// ColorForName returns the fill colour of a frame. The hue is an FNV-1a hash
// of the name, so a function keeps its colour across redraws and profiles.
func ColorForName(name string) Color {
	if name == "root" || name == "unknown" {
		return RootColor
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := float64(h.Sum32() % 360)
	return colorful.Hsl(hue, 0.45, 0.76)
}

// colorCache memoises ColorForName for one View.
type colorCache map[string]Color

func (c colorCache) get(name string) Color {
	if col, ok := c[name]; ok {
		return col
	}
	col := ColorForName(name)
	c[name] = col
	return col
}
