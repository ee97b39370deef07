package state

import "image"

// Area is an axis-aligned rectangle on the canvas.
type Area struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

func (a Area) Empty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Union returns the smallest area covering both a and b. An empty side is ignored.
func (a Area) Union(b Area) Area {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}

	minX := a.X
	if b.X < minX {
		minX = b.X
	}
	minY := a.Y
	if b.Y < minY {
		minY = b.Y
	}
	maxX := a.X + a.Width
	if b.X+b.Width > maxX {
		maxX = b.X + b.Width
	}
	maxY := a.Y + a.Height
	if b.Y+b.Height > maxY {
		maxY = b.Y + b.Height
	}

	return Area{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Rect converts the area to whole pixels, rounding outwards.
func (a Area) Rect() image.Rectangle {
	x0, y0 := floor(a.X), floor(a.Y)
	x1, y1 := ceil(a.X+a.Width), ceil(a.Y+a.Height)
	return image.Rect(x0, y0, x1, y1)
}

// StrokesBounds is the union of the bounds of every stroke.
func StrokesBounds(strokes []Stroke) Area {
	var area Area
	for _, s := range strokes {
		area = area.Union(s.Bounds())
	}
	return area
}

// boundsOf calculates the bounding box of the points with pad added on each side.
func boundsOf(points []Point, pad float32) Area {
	if len(points) == 0 {
		return Area{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, point := range points {
		if point.X < minX {
			minX = point.X
		}
		if point.X > maxX {
			maxX = point.X
		}
		if point.Y < minY {
			minY = point.Y
		}
		if point.Y > maxY {
			maxY = point.Y
		}
	}

	return Area{
		X:      minX - pad,
		Y:      minY - pad,
		Width:  maxX - minX + 2*pad,
		Height: maxY - minY + 2*pad,
	}
}

func floor(v float32) int {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return i
}

func ceil(v float32) int {
	i := int(v)
	if float32(i) < v {
		i++
	}
	return i
}
