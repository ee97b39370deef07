// Package engine owns a drawing session: the stroke being drawn, the stroke
// history, the raster cache of committed strokes and the display target.
//
// Pointer input and surface lifecycle events may arrive on different
// goroutines. Every method takes the same lock, so a composite pass never sees
// a cache that is being rebuilt or released.
package engine

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"SketchBoard/internal/raster"
	"SketchBoard/internal/state"
)

var ErrNoSurface = errors.New("no surface")

// Presenter receives every composited frame. Present is called with the engine
// lock held: it must not call back into the engine and should return quickly.
// The frame is not reused by the engine.
type Presenter interface {
	Present(frame *image.NRGBA)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(frame *image.NRGBA)

func (f PresenterFunc) Present(frame *image.NRGBA) { f(frame) }

type Options struct {
	// Background is the colour the raster cache is cleared to.
	Background color.Color
	WidthMode  state.WidthMode
	BaseWidth  float32
	Color      color.Color
	Width      float32
	// CheckpointInterval > 0 keeps a cache snapshot every that many strokes.
	CheckpointInterval int
}

func DefaultOptions() Options {
	return Options{
		Background:         color.Transparent,
		WidthMode:          state.WidthRatio,
		BaseWidth:          state.DefaultBaseWidth,
		Color:              color.Black,
		CheckpointInterval: 32,
	}
}

type Engine struct {
	mu sync.Mutex

	opts    Options
	style   *state.Style
	builder *state.Builder
	history *state.History

	// cache and display exist only while a surface is usable.
	cache   *raster.Cache
	display *raster.Compositor

	presenters []Presenter
	last       *image.NRGBA
}

func New(opts Options) *Engine {
	if opts.Background == nil {
		opts.Background = color.Transparent
	}
	style := state.NewStyle(opts.WidthMode, opts.BaseWidth)
	if opts.Color != nil {
		style.SetColor(opts.Color)
	}
	style.SetWidth(opts.Width)

	return &Engine{
		opts:    opts,
		style:   style,
		builder: state.NewBuilder(style),
		history: state.NewHistory(),
	}
}

func (e *Engine) AddPresenter(p Presenter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.presenters = append(e.presenters, p)
}

// OnSurfaceReady allocates the cache and display target. Calling it while a
// surface is already held behaves like OnSurfaceResized.
func (e *Engine) OnSurfaceReady(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	logger().Info("surface ready", "width", width, "height", height)
	return e.allocate(width, height)
}

// OnSurfaceResized reallocates the cache at the new size and rebuilds it from
// the history. A stroke in progress is dropped.
func (e *Engine) OnSurfaceResized(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache != nil {
		if w, h := e.cache.Size(); w == width && h == height {
			return nil
		}
	}
	logger().Debug("surface resized", "width", width, "height", height)
	return e.allocate(width, height)
}

// OnSurfaceLost releases the cache and display target and ends the session:
// both history stacks are cleared.
func (e *Engine) OnSurfaceLost() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.builder.Discard()
	e.history.Reset()
	e.release()
	e.last = nil
	logger().Info("surface lost")
}

func (e *Engine) allocate(width, height int) error {
	if err := raster.CheckSize(width, height); err != nil {
		return fmt.Errorf("allocate surface: %w", err)
	}
	cache, err := raster.NewCache(width, height, e.opts.Background, e.opts.CheckpointInterval)
	if err != nil {
		return fmt.Errorf("allocate cache: %w", err)
	}
	display, err := raster.NewCompositor(width, height)
	if err != nil {
		cache.Release()
		return fmt.Errorf("allocate display: %w", err)
	}

	e.builder.Discard()
	e.release()
	e.cache, e.display = cache, display

	if err := e.cache.Rebuild(e.history.Strokes()); err != nil {
		return fmt.Errorf("rebuild after resize: %w", err)
	}
	e.compose()
	return nil
}

func (e *Engine) release() {
	if e.cache != nil {
		e.cache.Release()
		e.cache = nil
	}
	if e.display != nil {
		e.display.Release()
		e.display = nil
	}
}

func (e *Engine) OnPointerDown(x, y float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache == nil {
		logger().Debug("pointer down ignored", "err", ErrNoSurface)
		return
	}
	e.builder.Begin(state.Point{X: x, Y: y})
	e.compose()
}

func (e *Engine) OnPointerMove(x, y float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.builder.Extend(state.Point{X: x, Y: y}); err != nil {
		logger().Debug("pointer move ignored", "err", err)
		return
	}
	e.compose()
}

// OnPointerUp finishes the active stroke, commits it and paints it into the cache.
func (e *Engine) OnPointerUp(x, y float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.builder.Finish(state.Point{X: x, Y: y})
	if err != nil {
		logger().Debug("pointer up ignored", "err", err)
		return
	}
	e.history.Commit(s)
	e.appendStroke(s)
	logger().Debug("commit", "stroke", s.ID(), "seq", s.Seq(), "points", s.Len(),
		"dirty", s.Bounds().Rect(), "history", e.history.Len(), "undone", e.history.UndoLen())
	e.compose()
}

// Undo removes the most recent stroke and rebuilds the cache without it.
// It reports false when there is nothing to undo.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.builder.Discard()
	e.rebuild()
	logger().Debug("undo", "stroke", s.ID(),
		"history", e.history.Len(), "undone", e.history.UndoLen())
	e.compose()
	return true
}

// Redo restores the most recently undone stroke, painting it over the cache.
// It reports false when there is nothing to redo.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.appendStroke(s)
	logger().Debug("redo", "stroke", s.ID(), "seq", s.Seq(), "dirty", s.Bounds().Rect(),
		"history", e.history.Len(), "undone", e.history.UndoLen())
	e.compose()
	return true
}

// Reset empties both stacks and clears the cache. It cannot be undone.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Reset()
	e.builder.Discard()
	if e.cache != nil {
		e.cache.Clear()
	}
	logger().Debug("reset", "history", e.history.Len(), "undone", e.history.UndoLen())
	e.compose()
}

func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// State reports the number of committed and undone strokes.
func (e *Engine) State() (history, undone int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len(), e.history.UndoLen()
}

// Strokes returns the committed strokes in commit order.
func (e *Engine) Strokes() []state.Stroke {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Strokes()
}

// SetColor sets the colour of the next stroke. Committed strokes keep theirs.
func (e *Engine) SetColor(c color.Color) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.style.SetColor(c)
}

func (e *Engine) SetColorName(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style.SetColorName(name)
}

// SetStrokeWidth sets the width of the next stroke. With the ratio mode v
// scales the base width as base*(1+v); with the absolute mode v is the width.
func (e *Engine) SetStrokeWidth(v float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.style.SetWidth(v)
}

func (e *Engine) WidthMode() state.WidthMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style.Mode()
}

// Snapshot returns a copy of the last composited frame.
func (e *Engine) Snapshot() (*image.NRGBA, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return nil, false
	}
	img := image.NewNRGBA(e.last.Rect)
	copy(img.Pix, e.last.Pix)
	return img, true
}

func (e *Engine) appendStroke(s state.Stroke) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Append(s); err != nil {
		logger().Error("append failed, rebuilding", "stroke", s.ID(), "err", err)
		e.rebuild()
	}
}

func (e *Engine) rebuild() {
	if e.cache == nil {
		return
	}
	if err := e.cache.Rebuild(e.history.Strokes()); err != nil {
		logger().Error("rebuild failed", "err", err)
	}
}

// compose produces a frame from the cache and the live path and hands it to
// every presenter.
func (e *Engine) compose() {
	if e.cache == nil || e.display == nil {
		return
	}
	c, w := e.builder.Style()
	frame, err := e.display.Compose(e.cache, e.builder.Geometry(), c, w)
	if err != nil {
		logger().Error("composite failed", "err", err)
		return
	}
	e.last = frame
	for _, p := range e.presenters {
		p.Present(frame)
	}
}
