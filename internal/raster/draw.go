package raster

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"SketchBoard/internal/state"
)

// Geometry is a drawable point sequence: a committed stroke or the live path.
type Geometry interface {
	Len() int
	At(i int) state.Point
	IsDot() bool
}

func newContext(pm *gg.Pixmap) *gg.Context {
	dc := gg.NewContext(pm.Width(), pm.Height(), gg.WithPixmap(pm))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return dc
}

// drawGeometry paints g with a round cap and join. A geometry whose points all
// coincide has no segment to stroke and is painted as a disc of the stroke width.
func drawGeometry(dc *gg.Context, g Geometry, c color.NRGBA, width float32) error {
	if g.Len() == 0 {
		return nil
	}
	dc.SetColor(c)

	first := g.At(0)
	if g.IsDot() {
		dc.DrawCircle(float64(first.X), float64(first.Y), float64(width)/2)
		return dc.Fill()
	}

	dc.SetLineWidth(float64(width))
	dc.MoveTo(float64(first.X), float64(first.Y))
	for i := 1; i < g.Len(); i++ {
		p := g.At(i)
		dc.LineTo(float64(p.X), float64(p.Y))
	}
	return dc.Stroke()
}

// toImage copies the pixmap into an image. Pixmap data is straight (not
// premultiplied) RGBA, which is the NRGBA layout.
func toImage(pm *gg.Pixmap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pm.Width(), pm.Height()))
	copy(img.Pix, pm.Data())
	return img
}
