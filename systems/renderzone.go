package systems

import "math"

// Box is an axis-aligned bounding box in viewport pixels.
type Box struct {
	Left, Top, Right, Bottom float64
}

// Rect is an axis-aligned rectangle in page (scroll-absolute) pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// PageGeometry answers layout queries against the host page.
// Boxes are viewport-relative; a false second return means the landmark is absent.
type PageGeometry interface {
	Hero() (Box, bool)
	Main() (Box, bool)
	Footer() (Box, bool)
	Cards() []Box
	ScrollY() float64
}

// LayoutNotifier is implemented by hosts that can report landmark geometry changes
// independent of resize and scroll. Observe returns a function that unsubscribes.
type LayoutNotifier interface {
	Observe(fn func()) (cancel func())
}

// LayoutMap is a snapshot of the vertical render band and excluded rectangles,
// in page coordinates. A LayoutMap is never modified once built.
type LayoutMap struct {
	StartY  float64
	EndY    float64 // +Inf when the band is unbounded below
	Blocked []Rect
}

// UnboundedLayout admits every point.
func UnboundedLayout() *LayoutMap {
	return &LayoutMap{StartY: 0, EndY: math.Inf(1)}
}

// BuildLayoutMap snapshots the render band and card rectangles from geometry.
// The band runs from the hero's bottom edge to the footer's bottom edge, falling
// back to main's bottom edge, or unbounded when neither exists.
func BuildLayoutMap(geom PageGeometry) *LayoutMap {
	scrollY := geom.ScrollY()
	m := UnboundedLayout()

	if hero, ok := geom.Hero(); ok {
		m.StartY = hero.Bottom + scrollY
	}
	if footer, ok := geom.Footer(); ok {
		m.EndY = footer.Bottom + scrollY
	} else if main, ok := geom.Main(); ok {
		m.EndY = main.Bottom + scrollY
	}

	cards := geom.Cards()
	if len(cards) > 0 {
		m.Blocked = make([]Rect, len(cards))
		for i, c := range cards {
			m.Blocked[i] = Rect{
				Left:   c.Left,
				Right:  c.Right,
				Top:    c.Top + scrollY,
				Bottom: c.Bottom + scrollY,
			}
		}
	}
	return m
}

// Admits reports whether a point in page coordinates may be drawn.
func (m *LayoutMap) Admits(x, absY float64) bool {
	if absY < m.StartY || absY > m.EndY {
		return false
	}
	for i := range m.Blocked {
		if m.Blocked[i].Contains(x, absY) {
			return false
		}
	}
	return true
}

// ZoneTester decides per needle whether it is updated and drawn this frame.
type ZoneTester interface {
	InZone(x, yViewport float64) bool
}

// RenderZone masks the field against the current layout map.
// The map is rebuilt on demand, never per frame.
type RenderZone struct {
	geom   PageGeometry
	layout *LayoutMap
}

// NewRenderZone creates a zone over geom. Until Rebuild is called every point is admitted.
func NewRenderZone(geom PageGeometry) *RenderZone {
	return &RenderZone{geom: geom, layout: UnboundedLayout()}
}

// Rebuild recomputes the layout map from current geometry and swaps it in whole.
func (z *RenderZone) Rebuild() {
	z.layout = BuildLayoutMap(z.geom)
}

// Layout returns the current layout snapshot.
func (z *RenderZone) Layout() *LayoutMap {
	return z.layout
}

// InZone converts a viewport Y to page Y using the current scroll offset and
// tests it against the layout map.
func (z *RenderZone) InZone(x, yViewport float64) bool {
	return z.layout.Admits(x, yViewport+z.geom.ScrollY())
}

// allZone admits every point.
type allZone struct{}

func (allZone) InZone(x, y float64) bool { return true }

// EverywhereZone returns a ZoneTester that admits every point.
func EverywhereZone() ZoneTester { return allZone{} }
