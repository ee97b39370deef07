package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/engine"
)

// Board shows the engine's frames and feeds it pointer input. The surface is
// sized in device pixels, so positions are multiplied by the canvas scale.
type Board struct {
	widget.BaseWidget
	eng *engine.Engine

	scale   float32
	image   *canvas.Image
	drawing bool
	last    fyne.Position

	// OnChange runs after any input that may have changed the history.
	OnChange func()
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)

func NewBoard(eng *engine.Engine) *Board {
	b := &Board{eng: eng, scale: 1}
	b.image = canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	b.image.FillMode = canvas.ImageFillStretch
	b.image.ScaleMode = canvas.ImageScalePixels
	b.ExtendBaseWidget(b)
	eng.AddPresenter(b)
	return b
}

// Present swaps in a new frame. It runs under the engine lock, so the
// canvas update is handed to the fyne goroutine.
func (b *Board) Present(frame *image.NRGBA) {
	fyne.Do(func() {
		b.image.Image = frame
		b.image.Refresh()
	})
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.drawing = true
	b.last = e.Position
	x, y := b.toSurface(e.Position)
	b.eng.OnPointerDown(x, y)
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	if !b.drawing {
		return
	}
	b.last = e.Position
	x, y := b.toSurface(e.Position)
	b.eng.OnPointerMove(x, y)
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.finish(e.Position)
}

// DragEnd may arrive instead of MouseUp when the pointer leaves the widget.
func (b *Board) DragEnd() {
	b.finish(b.last)
}

func (b *Board) finish(p fyne.Position) {
	if !b.drawing {
		return
	}
	b.drawing = false
	x, y := b.toSurface(p)
	b.eng.OnPointerUp(x, y)
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *Board) toSurface(p fyne.Position) (float32, float32) {
	return p.X * b.scale, p.Y * b.scale
}

// canvasScale is the device pixels per widget unit, 1 when not on a canvas yet.
func (b *Board) canvasScale() float32 {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(b); c != nil && c.Scale() > 0 {
			return c.Scale()
		}
	}
	return 1
}

// Cancel abandons the current drag, used when the history changes under it.
func (b *Board) Cancel() {
	b.drawing = false
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{
		board:      b,
		background: canvas.NewRectangle(color.White),
	}
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.image}
}

// Layout resizes the drawing surface with the widget.
func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.image.Resize(size)

	scale := r.board.canvasScale()
	r.board.scale = scale
	w, h := int(size.Width*scale), int(size.Height*scale)
	if w <= 0 || h <= 0 {
		return
	}
	r.board.drawing = false
	if err := r.board.eng.OnSurfaceResized(w, h); err != nil {
		logger().Error("resize surface", "width", w, "height", h, "scale", scale, "err", err)
	}
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Refresh() {
	r.background.Refresh()
	r.board.image.Refresh()
}

func (r *boardRenderer) Destroy() {}
