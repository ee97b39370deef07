package ui

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/state"
)

func newTestBoard(t *testing.T) (*engine.Engine, *Board) {
	t.Helper()
	test.NewTempApp(t)
	eng := engine.New(engine.DefaultOptions())
	b := NewBoard(eng)
	require.NoError(t, eng.OnSurfaceReady(120, 80))
	t.Cleanup(eng.OnSurfaceLost)
	return eng, b
}

func press(b *Board, x, y float32, button desktop.MouseButton) {
	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: button})
}

func release(b *Board, x, y float32, button desktop.MouseButton) {
	b.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: button})
}

func drag(b *Board, x, y float32) {
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}})
}

func TestBoardCommitsStroke(t *testing.T) {
	eng, b := newTestBoard(t)
	changes := 0
	b.OnChange = func() { changes++ }

	press(b, 10, 10, desktop.MouseButtonPrimary)
	drag(b, 40, 20)
	release(b, 60, 30, desktop.MouseButtonPrimary)
	b.DragEnd()

	require.Len(t, eng.Strokes(), 1)
	assert.Equal(t, 3, eng.Strokes()[0].Len())
	assert.Equal(t, 1, changes)

	frame, ok := b.image.Image.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 120, 80), frame.Rect)
}

func TestBoardDragEndFinishesStroke(t *testing.T) {
	eng, b := newTestBoard(t)
	press(b, 10, 10, desktop.MouseButtonPrimary)
	drag(b, 50, 50)
	b.DragEnd()

	require.Len(t, eng.Strokes(), 1)
	assert.Equal(t, 3, eng.Strokes()[0].Len(), "the last drag position ends the stroke")
}

func TestBoardIgnoresSecondaryButton(t *testing.T) {
	eng, b := newTestBoard(t)
	press(b, 10, 10, desktop.MouseButtonSecondary)
	drag(b, 50, 50)
	release(b, 50, 50, desktop.MouseButtonSecondary)
	assert.Empty(t, eng.Strokes())
}

func TestBoardCancel(t *testing.T) {
	eng, b := newTestBoard(t)
	press(b, 10, 10, desktop.MouseButtonPrimary)
	b.Cancel()
	release(b, 20, 20, desktop.MouseButtonPrimary)
	assert.Empty(t, eng.Strokes())
}

func TestExportFrame(t *testing.T) {
	eng, b := newTestBoard(t)
	press(b, 20, 20, desktop.MouseButtonPrimary)
	release(b, 60, 40, desktop.MouseButtonPrimary)

	var buf bytes.Buffer
	require.NoError(t, exportFrame(eng, "png", &buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Less(t, img.Bounds().Dx(), 120, "cropped to the drawn area")

	buf.Reset()
	require.NoError(t, exportFrame(eng, "pdf", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	assert.Error(t, exportFrame(eng, "gif", &buf))

	eng.OnSurfaceLost()
	assert.ErrorIs(t, exportFrame(eng, "png", &buf), engine.ErrNoSurface)
}

func TestToolbarUndoAbandonsDrag(t *testing.T) {
	eng, b := newTestBoard(t)
	tools, _ := newToolbar(eng, b, 0, func(string) {})
	b.OnChange = tools.sync
	assert.True(t, tools.undo.Disabled())

	press(b, 10, 10, desktop.MouseButtonPrimary)
	release(b, 40, 10, desktop.MouseButtonPrimary)
	require.Len(t, eng.Strokes(), 1)
	require.False(t, tools.undo.Disabled())

	press(b, 10, 50, desktop.MouseButtonPrimary)
	drag(b, 40, 50)
	test.Tap(tools.undo)
	assert.False(t, b.drawing)
	release(b, 60, 50, desktop.MouseButtonPrimary)
	b.DragEnd()

	assert.Empty(t, eng.Strokes(), "the abandoned drag is never committed")
	assert.True(t, eng.CanRedo())
	assert.True(t, tools.undo.Disabled(), "undo is disabled with an empty history")
}

func TestToolbarResetAbandonsDrag(t *testing.T) {
	eng, b := newTestBoard(t)
	tools, _ := newToolbar(eng, b, 0, func(string) {})
	b.OnChange = tools.sync

	press(b, 10, 10, desktop.MouseButtonPrimary)
	release(b, 40, 10, desktop.MouseButtonPrimary)
	require.False(t, tools.reset.Disabled())

	press(b, 10, 50, desktop.MouseButtonPrimary)
	drag(b, 40, 50)
	test.Tap(tools.reset)
	release(b, 60, 50, desktop.MouseButtonPrimary)

	assert.Empty(t, eng.Strokes())
	assert.False(t, b.drawing)
}

func TestBoardScalesToDevicePixels(t *testing.T) {
	eng, b := newTestBoard(t)
	b.scale = 2
	require.NoError(t, eng.OnSurfaceResized(240, 160))

	press(b, 10, 10, desktop.MouseButtonPrimary)
	release(b, 30, 15, desktop.MouseButtonPrimary)

	require.Len(t, eng.Strokes(), 1)
	s := eng.Strokes()[0]
	assert.Equal(t, state.Point{X: 20, Y: 20}, s.At(0))
	assert.Equal(t, state.Point{X: 60, Y: 30}, s.At(1))
}

func TestBoardLayoutSizesSurface(t *testing.T) {
	eng, b := newTestBoard(t)
	test.WidgetRenderer(b).Layout(fyne.NewSize(90, 70))

	frame, ok := eng.Snapshot()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 90, 70), frame.Rect)
	assert.Equal(t, float32(1), b.scale, "no canvas, no scaling")
}
