package wordcloud

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spacesedan/senticlouds/internal/models"
)

// Palette is a light-to-dark ramp sampled at a position in [0, 1].
type Palette []color.RGBA

var (
	Greens = Palette{
		{0xa1, 0xd9, 0x9b, 0xff}, {0x74, 0xc4, 0x76, 0xff}, {0x41, 0xab, 0x5d, 0xff},
		{0x23, 0x8b, 0x45, 0xff}, {0x00, 0x6d, 0x2c, 0xff}, {0x00, 0x44, 0x1b, 0xff},
	}
	Reds = Palette{
		{0xfc, 0x92, 0x72, 0xff}, {0xfb, 0x6a, 0x4a, 0xff}, {0xef, 0x3b, 0x2c, 0xff},
		{0xcb, 0x18, 0x1d, 0xff}, {0xa5, 0x0f, 0x15, 0xff}, {0x67, 0x00, 0x0d, 0xff},
	}
	Blues = Palette{
		{0x9e, 0xca, 0xe1, 0xff}, {0x6b, 0xae, 0xd6, 0xff}, {0x42, 0x92, 0xc6, 0xff},
		{0x21, 0x71, 0xb5, 0xff}, {0x08, 0x51, 0x9c, 0xff}, {0x08, 0x30, 0x6b, 0xff},
	}
)

// PaletteFor returns the colour ramp of a sentiment label.
func PaletteFor(label models.SentimentLabel) Palette {
	switch label {
	case models.Positive:
		return Greens
	case models.Negative:
		return Reds
	default:
		return Blues
	}
}

// At linearly interpolates the ramp at t, clamped to [0, 1].
func (p Palette) At(t float64) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{A: 0xff}
	}
	if t <= 0 || len(p) == 1 {
		return p[0]
	}
	if t >= 1 {
		return p[len(p)-1]
	}
	pos := t * float64(len(p)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := p[i], p[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*frac + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}

var namedColors = map[string]color.RGBA{
	"white": {0xff, 0xff, 0xff, 0xff},
	"black": {0x00, 0x00, 0x00, 0xff},
	"gray":  {0x80, 0x80, 0x80, 0xff},
	"grey":  {0x80, 0x80, 0x80, 0xff},
	"red":   {0xff, 0x00, 0x00, 0xff},
	"green": {0x00, 0x80, 0x00, 0xff},
	"blue":  {0x00, 0x00, 0xff, 0xff},
}

// ParseColor accepts a colour name or a #rrggbb hex value.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unsupported colour %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}
