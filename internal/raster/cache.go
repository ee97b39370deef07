package raster

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/gogpu/gg"

	"SketchBoard/internal/state"
)

// MaxPixels bounds the surface area a cache will allocate.
const MaxPixels = 1 << 26

const maxCheckpoints = 16

var ErrInvalidSurface = errors.New("invalid surface size")

// Cache is an off-screen buffer holding every committed stroke, painted in
// commit order over the base colour. It is derived from the history and can be
// rebuilt from it at any time.
//
// Cache is not safe for concurrent use.
type Cache struct {
	width  int
	height int
	base   gg.RGBA
	pm     *gg.Pixmap
	dc     *gg.Context

	// drawn holds the IDs of the painted strokes, in paint order.
	drawn []string

	interval    int
	checkpoints []checkpoint
}

// checkpoint is a copy of the pixels after the strokes in ids were painted.
type checkpoint struct {
	ids []string
	pix []byte
}

func (cp checkpoint) depth() int { return len(cp.ids) }

// matches reports whether strokes starts with the strokes the checkpoint holds.
func (cp checkpoint) matches(strokes []state.Stroke) bool {
	if len(cp.ids) > len(strokes) {
		return false
	}
	for i, id := range cp.ids {
		if strokes[i].ID() != id {
			return false
		}
	}
	return true
}

// NewCache allocates a blank cache. A positive interval makes the cache keep a
// pixel checkpoint every interval strokes so Rebuild can skip replaying them.
func NewCache(width, height int, base color.Color, interval int) (*Cache, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	pm := gg.NewPixmap(width, height)
	c := &Cache{
		width:    width,
		height:   height,
		base:     gg.FromColor(base),
		pm:       pm,
		dc:       newContext(pm),
		interval: interval,
	}
	c.Clear()
	return c, nil
}

// CheckSize validates surface dimensions.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxPixels/height {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSurface, width, height)
	}
	return nil
}

func (c *Cache) Size() (int, int) { return c.width, c.height }

// Depth is the number of strokes the buffer currently holds.
func (c *Cache) Depth() int { return len(c.drawn) }

// Clear resets the buffer to the base colour and forgets every checkpoint.
func (c *Cache) Clear() {
	c.pm.Clear(c.base)
	c.drawn = c.drawn[:0]
	c.checkpoints = nil
}

// Append paints one more stroke over the current contents. The caller
// guarantees the buffer already holds every stroke committed before s.
func (c *Cache) Append(s state.Stroke) error {
	if err := drawGeometry(c.dc, s, s.Color(), s.Width()); err != nil {
		return fmt.Errorf("draw stroke %s: %w", s.ID(), err)
	}
	c.drawn = append(c.drawn, s.ID())
	c.checkpoint()
	return nil
}

// Rebuild repaints the buffer from strokes, oldest first. It starts from the
// deepest checkpoint that is a prefix of strokes, or from a blank buffer.
func (c *Cache) Rebuild(strokes []state.Stroke) error {
	start := time.Now()

	c.pm.Clear(c.base)
	c.drawn = c.drawn[:0]

	from := 0
	if cp, ok := c.restore(strokes); ok {
		copy(c.pm.Data(), cp.pix)
		c.drawn = append(c.drawn, cp.ids...)
		from = cp.depth()
	}

	for _, s := range strokes[from:] {
		if err := c.Append(s); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
	}

	logger().Debug("rebuild",
		"strokes", len(strokes),
		"from_checkpoint", from,
		"checkpoints", len(c.checkpoints),
		"took", time.Since(start))
	return nil
}

// restore drops every checkpoint that is not a prefix of strokes and returns
// the deepest remaining one.
func (c *Cache) restore(strokes []state.Stroke) (checkpoint, bool) {
	c.checkpoints = slices.DeleteFunc(c.checkpoints, func(cp checkpoint) bool {
		return !cp.matches(strokes)
	})
	if len(c.checkpoints) == 0 {
		return checkpoint{}, false
	}
	return c.checkpoints[len(c.checkpoints)-1], true
}

// checkpoint records the current pixels when the depth is a multiple of the interval.
func (c *Cache) checkpoint() {
	depth := len(c.drawn)
	if c.interval <= 0 || depth%c.interval != 0 {
		return
	}

	i, found := slices.BinarySearchFunc(c.checkpoints, depth, func(cp checkpoint, d int) int {
		return cp.depth() - d
	})
	cp := checkpoint{ids: slices.Clone(c.drawn), pix: c.Pixels()}
	if found {
		c.checkpoints[i] = cp
		return
	}
	c.checkpoints = slices.Insert(c.checkpoints, i, cp)
	if len(c.checkpoints) > maxCheckpoints {
		c.checkpoints = slices.Delete(c.checkpoints, 0, 1)
	}
}

// Pixels returns a copy of the raw buffer.
func (c *Cache) Pixels() []byte {
	return slices.Clone(c.pm.Data())
}

// Release frees the drawing target. The cache must not be used afterwards.
func (c *Cache) Release() {
	if c.dc != nil {
		_ = c.dc.Close()
	}
	c.dc = nil
	c.pm = nil
	c.drawn = nil
	c.checkpoints = nil
}
