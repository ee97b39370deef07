package state

import "image/color"

type Point struct{ X, Y float32 }

// Path is an ordered run of points. It satisfies the same Len/At access as Stroke
// so renderers can draw a live path and a committed stroke the same way.
type Path []Point

func (p Path) Len() int { return len(p) }
func (p Path) At(i int) Point { return p[i] }
func (p Path) IsDot() bool { return isDot(p) }

// Stroke is one finished pointer drag with the colour and width it was drawn with.
// A Stroke is immutable once built.
type Stroke struct {
	id     string
	seq    uint64
	points []Point
	color  color.NRGBA
	width  float32
}

func newStroke(points []Point, c color.NRGBA, width float32) Stroke {
	pts := make([]Point, len(points))
	copy(pts, points)
	id, seq := nextStrokeID()
	return Stroke{
		id:     id,
		seq:    seq,
		points: pts,
		color:  c,
		width:  width,
	}
}

func (s Stroke) ID() string { return s.id }
func (s Stroke) Seq() uint64 { return s.seq }
func (s Stroke) Color() color.NRGBA { return s.color }
func (s Stroke) Width() float32 { return s.width }
func (s Stroke) Len() int { return len(s.points) }
func (s Stroke) At(i int) Point { return s.points[i] }
func (s Stroke) IsDot() bool { return isDot(s.points) }

// Points returns a copy of the stroke geometry.
func (s Stroke) Points() Path {
	pts := make(Path, len(s.points))
	copy(pts, s.points)
	return pts
}

// Bounds is the area the stroke can paint: its point bounding box grown by half the width.
func (s Stroke) Bounds() Area {
	return boundsOf(s.points, s.width/2)
}

// isDot reports whether every point coincides, so there is no segment to stroke.
func isDot(points []Point) bool {
	if len(points) == 0 {
		return false
	}
	for _, p := range points[1:] {
		if p != points[0] {
			return false
		}
	}
	return true
}
