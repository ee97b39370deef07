// Package export writes the composited picture out as PNG or as a one-page PDF.
// It exports pixels only; the stroke history is not written.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"SketchBoard/internal/state"
)

// Padding is kept around the drawn area when cropping.
const Padding = 16

var ErrEmptyFrame = errors.New("empty frame")

// Crop returns the part of frame covered by the strokes plus Padding on each
// side. With no strokes the whole frame is returned.
func Crop(frame *image.NRGBA, strokes []state.Stroke) *image.NRGBA {
	area := state.StrokesBounds(strokes)
	if area.Empty() {
		return frame
	}
	r := area.Rect().Inset(-Padding).Intersect(frame.Bounds())
	if r.Empty() {
		return frame
	}

	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), frame, r.Min, draw.Src)
	return out
}

func PNG(w io.Writer, img image.Image) error {
	if img.Bounds().Empty() {
		return ErrEmptyFrame
	}
	return png.Encode(w, img)
}

// PDF places img on a single A4 page, scaled to fit inside the margins and
// centred. The page is landscape when the image is wider than tall.
func PDF(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return ErrEmptyFrame
	}

	orientation := "P"
	if b.Dx() > b.Dy() {
		orientation = "L"
	}
	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetTitle("SketchBoard", true)
	p.SetCreator("SketchBoard", true)
	p.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	p.RegisterImageOptionsReader("frame", opts, &buf)

	const margin = 10.0
	pageW, pageH := p.GetPageSize()
	boxW, boxH := pageW-2*margin, pageH-2*margin
	scale := boxW / float64(b.Dx())
	if s := boxH / float64(b.Dy()); s < scale {
		scale = s
	}
	imgW, imgH := float64(b.Dx())*scale, float64(b.Dy())*scale
	x := margin + (boxW-imgW)/2
	y := margin + (boxH-imgH)/2
	p.ImageOptions("frame", x, y, imgW, imgH, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
