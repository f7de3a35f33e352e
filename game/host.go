package game

import (
	"time"

	"github.com/pthm-cable/needles/page"
	"github.com/pthm-cable/needles/systems"
)

// PageHost adapts a page model, a drawable and a clock to Host.
// Both the window and the headless runner host the field this way.
type PageHost struct {
	Page          *page.Page
	Drawable      systems.Surface
	Ratio         float64
	PrefersStatic bool
	Clock         func() time.Duration
}

// Surface returns the drawable, or nil when none is attached.
func (h *PageHost) Surface() systems.Surface {
	return h.Drawable
}

// Viewport returns the page's viewport size.
func (h *PageHost) Viewport() (width, height float64) {
	return h.Page.Viewport()
}

// PixelRatio returns the device pixel ratio, defaulting to 1.
func (h *PageHost) PixelRatio() float64 {
	if h.Ratio <= 0 {
		return 1
	}
	return h.Ratio
}

// Geometry returns the page model.
func (h *PageHost) Geometry() systems.PageGeometry {
	return h.Page
}

// ReducedMotion reports the reduced motion preference.
func (h *PageHost) ReducedMotion() bool {
	return h.PrefersStatic
}

// Now reads the host clock.
func (h *PageHost) Now() time.Duration {
	return h.Clock()
}
