package ui

import (
	"fmt"
	"image"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/export"
)

// exportFrame writes the current picture, cropped to the drawn area.
func exportFrame(eng *engine.Engine, format string, w io.Writer) error {
	frame, ok := eng.Snapshot()
	if !ok {
		return engine.ErrNoSurface
	}
	var img image.Image = export.Crop(frame, eng.Strokes())
	switch format {
	case "pdf":
		return export.PDF(w, img)
	case "png":
		return export.PNG(w, img)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func showExport(win fyne.Window, eng *engine.Engine, format string, done func(msg string)) {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				logger().Error("close export", "uri", writer.URI(), "err", err)
			}
		}()

		if err := exportFrame(eng, format, writer); err != nil {
			logger().Error("export", "format", format, "err", err)
			dialog.ShowError(fmt.Errorf("export %s: %w", format, err), win)
			return
		}
		logger().Info("exported", "format", format, "uri", writer.URI())
		done("saved " + writer.URI().Name())
	}, win)
	save.SetFileName("sketch." + format)
	save.SetFilter(storage.NewExtensionFileFilter([]string{"." + format}))
	save.Show()
}
