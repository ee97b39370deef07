package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// Compositor owns the display target. Each Compose produces a new frame from
// the cache and the live path.
type Compositor struct {
	pm *gg.Pixmap
	dc *gg.Context
}

func NewCompositor(width, height int) (*Compositor, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	pm := gg.NewPixmap(width, height)
	return &Compositor{pm: pm, dc: newContext(pm)}, nil
}

// Compose clears the target, blits the cache and, when live has points, draws
// it with the given colour and width on top. The returned frame is a copy the
// caller may keep.
func (c *Compositor) Compose(cache *Cache, live Geometry, col color.NRGBA, width float32) (*image.NRGBA, error) {
	if cache.width != c.pm.Width() || cache.height != c.pm.Height() {
		return nil, fmt.Errorf("%w: cache %dx%d, target %dx%d",
			ErrInvalidSurface, cache.width, cache.height, c.pm.Width(), c.pm.Height())
	}

	// The cache covers the whole target, so copying it both clears and blits.
	copy(c.pm.Data(), cache.pm.Data())

	if live != nil && live.Len() > 0 {
		if err := drawGeometry(c.dc, live, col, width); err != nil {
			return nil, fmt.Errorf("draw live path: %w", err)
		}
	}
	return toImage(c.pm), nil
}

func (c *Compositor) Release() {
	if c.dc != nil {
		_ = c.dc.Close()
	}
	c.dc = nil
	c.pm = nil
}
