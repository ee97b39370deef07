package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	swatch   state.Swatch
	OnTapped func(state.Swatch)
}

func newColorSwatch(sw state.Swatch, tapped func(state.Swatch)) *colorSwatch {
	s := &colorSwatch{swatch: sw, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.swatch.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.swatch)
	}
}

// toolbar holds the controls whose state follows the engine.
type toolbar struct {
	eng    *engine.Engine
	board  *Board
	undo   *widget.Button
	redo   *widget.Button
	reset  *widget.Button
	status *widget.Label
	extra  string
}

func newToolbar(eng *engine.Engine, board *Board, width float32, onExport func(format string)) (*toolbar, fyne.CanvasObject) {
	t := &toolbar{eng: eng, board: board, status: widget.NewLabel("")}

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), t.doUndo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), t.doRedo)
	t.reset = widget.NewButtonWithIcon("", theme.DeleteIcon(), t.doReset)
	pdf := widget.NewButtonWithIcon("PDF", theme.DocumentSaveIcon(), func() { onExport("pdf") })
	png := widget.NewButtonWithIcon("PNG", theme.FileImageIcon(), func() { onExport("png") })

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, sw := range state.Palette {
		colorBox.Add(newColorSwatch(sw, func(sw state.Swatch) {
			eng.SetColor(sw.Color)
			t.setStatus(sw.Name)
		}))
	}

	// --- Stroke Width Slider ---
	var slider *widget.Slider
	if eng.WidthMode() == state.WidthRatio {
		slider = widget.NewSlider(0, 1)
		slider.Step = 0.05
	} else {
		slider = widget.NewSlider(1, 64)
	}
	slider.SetValue(float64(width))
	slider.OnChanged = func(v float64) {
		eng.SetStrokeWidth(float32(v))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), slider)

	t.sync()
	return t, container.NewHBox(
		t.undo, t.redo, t.reset,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		pdf, png,
		layout.NewSpacer(),
		t.status,
	)
}

// doUndo also abandons a drag in progress.
func (t *toolbar) doUndo() {
	t.board.Cancel()
	t.eng.Undo()
	t.sync()
}

func (t *toolbar) doRedo() {
	t.eng.Redo()
	t.sync()
}

func (t *toolbar) doReset() {
	t.board.Cancel()
	t.eng.Reset()
	t.sync()
}

// sync enables the history buttons and refreshes the status line.
// It must not run from a Presenter.
func (t *toolbar) sync() {
	toggle(t.undo, t.eng.CanUndo())
	toggle(t.redo, t.eng.CanRedo())
	history, undone := t.eng.State()
	toggle(t.reset, history+undone > 0)
	t.setStatus("")
}

func (t *toolbar) setStatus(extra string) {
	if extra != "" {
		t.extra = extra
	}
	history, undone := t.eng.State()
	text := fmt.Sprintf("%d strokes, %d undone", history, undone)
	if t.extra != "" {
		text += " | " + t.extra
	}
	t.status.SetText(text)
}

func toggle(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
