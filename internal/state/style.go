package state

import (
	"fmt"
	"image/color"
	"strings"
)

// WidthMode selects how SetWidth interprets its argument.
type WidthMode int

const (
	// WidthRatio scales the base width: width = base * (1 + value).
	WidthRatio WidthMode = iota
	// WidthAbsolute uses the value as the width.
	WidthAbsolute
)

const (
	DefaultBaseWidth float32 = 16
	minWidth         float32 = 1
)

func (m WidthMode) String() string {
	switch m {
	case WidthRatio:
		return "ratio"
	case WidthAbsolute:
		return "absolute"
	}
	return fmt.Sprintf("WidthMode(%d)", int(m))
}

func ParseWidthMode(s string) (WidthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ratio":
		return WidthRatio, nil
	case "absolute":
		return WidthAbsolute, nil
	}
	return 0, fmt.Errorf("unknown width mode %q", s)
}

// Style is the drawing configuration the next stroke starts with.
// It is not safe for concurrent use; the owner serializes access.
type Style struct {
	color color.NRGBA
	mode  WidthMode
	base  float32
	value float32
}

func NewStyle(mode WidthMode, base float32) *Style {
	if base <= 0 {
		base = DefaultBaseWidth
	}
	return &Style{
		color: color.NRGBA{A: 0xff},
		mode:  mode,
		base:  base,
	}
}

func (s *Style) SetColor(c color.Color) {
	s.color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// SetColorName resolves a palette name and makes it the current colour.
func (s *Style) SetColorName(name string) error {
	c, err := LookupColor(name)
	if err != nil {
		return err
	}
	s.color = c
	return nil
}

// SetWidth stores the raw width value; how it resolves depends on Mode.
func (s *Style) SetWidth(v float32) {
	s.value = v
}

func (s *Style) Color() color.NRGBA { return s.color }
func (s *Style) Mode() WidthMode { return s.mode }

// Width is the resolved stroke thickness, never below one pixel.
func (s *Style) Width() float32 {
	w := s.value
	if s.mode == WidthRatio {
		w = s.base * (1 + s.value)
	}
	if w < minWidth {
		return minWidth
	}
	return w
}
