package state

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

var ErrUnknownColor = errors.New("unknown color")

type Swatch struct {
	Name  string
	Color color.NRGBA
}

// Palette is the fixed set of colours offered to the user, in display order.
var Palette = []Swatch{
	{"Red", color.NRGBA{R: 0xf4, G: 0x43, B: 0x36, A: 0xff}},
	{"Orange", color.NRGBA{R: 0xff, G: 0x98, B: 0x00, A: 0xff}},
	{"Yellow", color.NRGBA{R: 0xff, G: 0xeb, B: 0x3b, A: 0xff}},
	{"Green", color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}},
	{"Purple", color.NRGBA{R: 0x9c, G: 0x27, B: 0xb0, A: 0xff}},
	{"Blue", color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff}},
	{"LightBlue", color.NRGBA{R: 0x03, G: 0xa9, B: 0xf4, A: 0xff}},
	{"Black", color.NRGBA{A: 0xff}},
	{"White", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
}

// LookupColor maps a palette name to its colour. Names are case-insensitive.
func LookupColor(name string) (color.NRGBA, error) {
	for _, sw := range Palette {
		if strings.EqualFold(sw.Name, name) {
			return sw.Color, nil
		}
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
}
