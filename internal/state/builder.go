package state

import (
	"errors"
	"image/color"
)

var ErrNoActivePath = errors.New("no active path")

// Builder accumulates the stroke currently being drawn. There is at most one
// active path. It has no style of its own: the live path is drawn with the
// current style and becomes a Stroke with the style current at Finish.
type Builder struct {
	style  *Style
	active bool
	points Path
}

func NewBuilder(style *Style) *Builder {
	return &Builder{style: style}
}

// Begin starts a new active path at p. An unfinished path is dropped.
func (b *Builder) Begin(p Point) {
	b.points = append(b.points[:0], p)
	b.active = true
}

func (b *Builder) Extend(p Point) error {
	if !b.active {
		return ErrNoActivePath
	}
	b.points = append(b.points, p)
	return nil
}

// Finish appends p and turns the active path into a Stroke with the current
// colour and width, clearing the path.
// Releasing where the path began without moving yields a one-point stroke.
func (b *Builder) Finish(p Point) (Stroke, error) {
	if !b.active {
		return Stroke{}, ErrNoActivePath
	}
	if !(len(b.points) == 1 && b.points[0] == p) {
		b.points = append(b.points, p)
	}
	s := newStroke(b.points, b.style.Color(), b.style.Width())
	b.Discard()
	return s, nil
}

// Discard drops the active path, if any.
func (b *Builder) Discard() {
	b.points = b.points[:0]
	b.active = false
}

// Geometry returns a copy of the live points.
func (b *Builder) Geometry() Path {
	if !b.active {
		return nil
	}
	pts := make(Path, len(b.points))
	copy(pts, b.points)
	return pts
}

// Style reports the colour and width the active path is drawn with.
func (b *Builder) Style() (color.NRGBA, float32) {
	return b.style.Color(), b.style.Width()
}
