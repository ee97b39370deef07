package state

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = color.NRGBA{A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
)

func TestBuilderScenario(t *testing.T) {
	style := NewStyle(WidthAbsolute, 0)
	style.SetColor(black)
	style.SetWidth(4)
	b := NewBuilder(style)

	b.Begin(Point{0, 0})
	require.NoError(t, b.Extend(Point{10, 0}))
	s, err := b.Finish(Point{10, 0})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, Path{{0, 0}, {10, 0}, {10, 0}}, s.Points())
	assert.Equal(t, black, s.Color())
	assert.Equal(t, float32(4), s.Width())
	assert.NotEmpty(t, s.ID())
	assert.Nil(t, b.Geometry(), "finish clears the active path")
}

func TestBuilderDot(t *testing.T) {
	b := NewBuilder(NewStyle(WidthRatio, 16))
	b.Begin(Point{5, 5})
	s, err := b.Finish(Point{5, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.IsDot())
}

func TestBuilderWithoutBegin(t *testing.T) {
	b := NewBuilder(NewStyle(WidthRatio, 16))
	assert.ErrorIs(t, b.Extend(Point{1, 1}), ErrNoActivePath)
	_, err := b.Finish(Point{1, 1})
	assert.ErrorIs(t, err, ErrNoActivePath)

	b.Begin(Point{0, 0})
	_, err = b.Finish(Point{1, 1})
	require.NoError(t, err)
	_, err = b.Finish(Point{2, 2})
	assert.ErrorIs(t, err, ErrNoActivePath, "a path finishes exactly once")
}

func TestBuilderBeginRestarts(t *testing.T) {
	b := NewBuilder(NewStyle(WidthRatio, 16))
	b.Begin(Point{0, 0})
	require.NoError(t, b.Extend(Point{1, 1}))
	b.Begin(Point{7, 7})
	assert.Equal(t, Path{{7, 7}}, b.Geometry())
}

func TestBuilderGeometryIsSnapshot(t *testing.T) {
	b := NewBuilder(NewStyle(WidthRatio, 16))
	b.Begin(Point{0, 0})
	g := b.Geometry()
	g[0] = Point{99, 99}
	require.NoError(t, b.Extend(Point{1, 1}))
	assert.Equal(t, Path{{0, 0}, {1, 1}}, b.Geometry())
}

func TestBuilderTakesStyleAtFinish(t *testing.T) {
	style := NewStyle(WidthAbsolute, 0)
	style.SetColor(red)
	style.SetWidth(2)
	b := NewBuilder(style)

	b.Begin(Point{0, 0})
	style.SetColor(blue)
	style.SetWidth(9)
	c, w := b.Style()
	assert.Equal(t, blue, c, "the live path follows the current style")
	assert.Equal(t, float32(9), w)

	s, err := b.Finish(Point{3, 3})
	require.NoError(t, err)
	assert.Equal(t, blue, s.Color())
	assert.Equal(t, float32(9), s.Width())

	style.SetColor(red)
	style.SetWidth(2)
	assert.Equal(t, blue, s.Color(), "a finished stroke keeps its style")
	assert.Equal(t, float32(9), s.Width())
}

func TestStrokeIsImmutable(t *testing.T) {
	b := NewBuilder(NewStyle(WidthRatio, 16))
	b.Begin(Point{0, 0})
	s, err := b.Finish(Point{4, 4})
	require.NoError(t, err)

	pts := s.Points()
	pts[0] = Point{50, 50}
	assert.Equal(t, Point{0, 0}, s.At(0))

	b.Begin(Point{8, 8})
	assert.Equal(t, Point{0, 0}, s.At(0), "builder reuse must not touch committed geometry")
}
