package state

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleWidth(t *testing.T) {
	tests := []struct {
		name  string
		mode  WidthMode
		base  float32
		value float32
		want  float32
	}{
		{"ratio zero", WidthRatio, 16, 0, 16},
		{"ratio one", WidthRatio, 16, 1, 32},
		{"ratio half", WidthRatio, 12, 0.5, 18},
		{"ratio default base", WidthRatio, 0, 0, DefaultBaseWidth},
		{"ratio clamped", WidthRatio, 16, -1, minWidth},
		{"absolute", WidthAbsolute, 16, 4, 4},
		{"absolute clamped", WidthAbsolute, 16, 0, minWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStyle(tt.mode, tt.base)
			s.SetWidth(tt.value)
			assert.Equal(t, tt.want, s.Width())
			assert.Equal(t, tt.mode, s.Mode())
		})
	}
}

func TestParseWidthMode(t *testing.T) {
	m, err := ParseWidthMode("Absolute")
	require.NoError(t, err)
	assert.Equal(t, WidthAbsolute, m)

	m, err = ParseWidthMode("")
	require.NoError(t, err)
	assert.Equal(t, WidthRatio, m)

	_, err = ParseWidthMode("log")
	assert.Error(t, err)
	assert.Equal(t, "ratio", WidthRatio.String())
}

func TestStyleColor(t *testing.T) {
	s := NewStyle(WidthRatio, 16)
	assert.Equal(t, color.NRGBA{A: 0xff}, s.Color())

	s.SetColor(color.RGBA{R: 0xff, A: 0xff})
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, s.Color())

	require.NoError(t, s.SetColorName("lightblue"))
	assert.Equal(t, color.NRGBA{R: 0x03, G: 0xa9, B: 0xf4, A: 0xff}, s.Color())

	err := s.SetColorName("Magenta")
	assert.ErrorIs(t, err, ErrUnknownColor)
	assert.Equal(t, color.NRGBA{R: 0x03, G: 0xa9, B: 0xf4, A: 0xff}, s.Color())
}
