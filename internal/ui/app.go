// Package ui is the fyne front end: a drawing board and its toolbar.
package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"SketchBoard/internal/engine"
)

type Options struct {
	Width  float32
	Height float32
	// StrokeWidth is the initial slider value.
	StrokeWidth float32
	// Status is shown next to the counters, e.g. the mirror address.
	Status string
}

func logger() *slog.Logger {
	return slog.Default().With("component", "ui")
}

// RunApp opens the main window and blocks until it is closed. Closing the
// window ends the session.
func RunApp(eng *engine.Engine, opts Options) {
	myApp := app.NewWithID("sketchboard")
	myWindow := myApp.NewWindow("SketchBoard")
	myWindow.Resize(fyne.NewSize(opts.Width, opts.Height))

	board := NewBoard(eng)

	var tools *toolbar
	exportAs := func(format string) {
		showExport(myWindow, eng, format, tools.setStatus)
	}
	tools, bar := newToolbar(eng, board, opts.StrokeWidth, exportAs)
	tools.setStatus(opts.Status)
	board.OnChange = tools.sync

	undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	myWindow.Canvas().AddShortcut(undo, func(fyne.Shortcut) { tools.doUndo() })
	myWindow.Canvas().AddShortcut(redo, func(fyne.Shortcut) { tools.doRedo() })

	myWindow.SetOnClosed(eng.OnSurfaceLost)
	myWindow.SetContent(container.NewBorder(bar, nil, nil, nil, board))
	myWindow.ShowAndRun()
}
