// Package page models the host page the needle field is drawn behind: a hero,
// a main section holding a grid of cards, and a footer, scrolled vertically
// inside the viewport.
package page

import (
	"math"

	"github.com/pthm-cable/needles/config"
	"github.com/pthm-cable/needles/systems"
)

// gutter is the minimum horizontal margin around the card column.
const gutter = 24

// Kind identifies a landmark.
type Kind uint8

const (
	KindHero Kind = iota
	KindMain
	KindCard
	KindFooter
)

// Landmark is a laid-out page element in viewport coordinates.
type Landmark struct {
	Kind     Kind
	Index    int // card index, 0 for other kinds
	Box      systems.Box
	Expanded bool
}

// Page lays out landmarks for a viewport and answers geometry queries.
// It implements systems.PageGeometry and systems.LayoutNotifier.
type Page struct {
	cfg        config.PageConfig
	breakpoint float64

	width, height float64
	scrollY       float64
	expanded      []bool

	// Layout in page coordinates
	hero, main, footer systems.Rect
	hasHero, hasFooter bool
	cards              []systems.Rect
	contentHeight      float64

	observers map[int]func()
	nextObs   int
}

// New lays out a page for a width x height viewport.
func New(cfg *config.Config, width, height float64) *Page {
	p := &Page{
		cfg:        cfg.Page,
		breakpoint: cfg.Field.MobileBreakpoint,
		expanded:   make([]bool, max(cfg.Page.CardCount, 0)),
		observers:  make(map[int]func()),
	}
	p.Resize(width, height)
	return p
}

// Resize lays the page out again for a new viewport and re-clamps the scroll offset.
func (p *Page) Resize(width, height float64) {
	p.width, p.height = width, height
	p.layout()
	p.SetScroll(p.scrollY)
}

// layout computes landmark rectangles in page coordinates.
func (p *Page) layout() {
	c := &p.cfg
	y := 0.0

	p.hasHero = c.HeroHeight > 0
	if p.hasHero {
		p.hero = systems.Rect{Left: 0, Top: 0, Right: p.width, Bottom: c.HeroHeight}
		y = c.HeroHeight
	}

	mainTop := y
	y += c.MainPadding

	cols := c.CardColumns
	if cols < 1 || p.width < p.breakpoint {
		cols = 1
	}
	colWidth := math.Min(c.ContentWidth, p.width-2*gutter)
	left := (p.width - colWidth) / 2
	cardWidth := (colWidth - c.CardGap*float64(cols-1)) / float64(cols)

	p.cards = p.cards[:0]
	rowHeight := 0.0
	for i := 0; i < c.CardCount; i++ {
		col := i % cols
		if col == 0 && i > 0 {
			y += rowHeight + c.CardGap
			rowHeight = 0
		}
		h := c.CardHeight
		if p.expanded[i] {
			h = c.CardExpanded
		}
		x := left + float64(col)*(cardWidth+c.CardGap)
		p.cards = append(p.cards, systems.Rect{Left: x, Top: y, Right: x + cardWidth, Bottom: y + h})
		rowHeight = math.Max(rowHeight, h)
	}
	y += rowHeight
	y += c.SectionHeight + c.MainPadding
	p.main = systems.Rect{Left: 0, Top: mainTop, Right: p.width, Bottom: y}

	p.hasFooter = c.FooterHeight > 0
	if p.hasFooter {
		p.footer = systems.Rect{Left: 0, Top: y, Right: p.width, Bottom: y + c.FooterHeight}
		y += c.FooterHeight
	}
	p.contentHeight = y
}

// ContentHeight returns the total page height.
func (p *Page) ContentHeight() float64 {
	return p.contentHeight
}

// Viewport returns the viewport size.
func (p *Page) Viewport() (width, height float64) {
	return p.width, p.height
}

// ScrollY returns the current scroll offset.
func (p *Page) ScrollY() float64 {
	return p.scrollY
}

// SetScroll moves the scroll offset, clamped to the scrollable range.
// Reports whether the offset changed.
func (p *Page) SetScroll(y float64) bool {
	maxScroll := math.Max(0, p.contentHeight-p.height)
	y = math.Max(0, math.Min(y, maxScroll))
	if y == p.scrollY {
		return false
	}
	p.scrollY = y
	return true
}

// ScrollBy moves the scroll offset by dy.
func (p *Page) ScrollBy(dy float64) bool {
	return p.SetScroll(p.scrollY + dy)
}

// toViewport converts a page rectangle to a viewport box.
func (p *Page) toViewport(r systems.Rect) systems.Box {
	return systems.Box{Left: r.Left, Top: r.Top - p.scrollY, Right: r.Right, Bottom: r.Bottom - p.scrollY}
}

// Hero returns the hero landmark's viewport box.
func (p *Page) Hero() (systems.Box, bool) {
	if !p.hasHero {
		return systems.Box{}, false
	}
	return p.toViewport(p.hero), true
}

// Main returns the main landmark's viewport box.
func (p *Page) Main() (systems.Box, bool) {
	if !p.cfg.HasMain {
		return systems.Box{}, false
	}
	return p.toViewport(p.main), true
}

// Footer returns the footer landmark's viewport box.
func (p *Page) Footer() (systems.Box, bool) {
	if !p.hasFooter {
		return systems.Box{}, false
	}
	return p.toViewport(p.footer), true
}

// Cards returns the card landmarks' viewport boxes.
func (p *Page) Cards() []systems.Box {
	out := make([]systems.Box, len(p.cards))
	for i, r := range p.cards {
		out[i] = p.toViewport(r)
	}
	return out
}

// Landmarks returns every landmark in draw order.
func (p *Page) Landmarks() []Landmark {
	var out []Landmark
	if box, ok := p.Hero(); ok {
		out = append(out, Landmark{Kind: KindHero, Box: box})
	}
	if box, ok := p.Main(); ok {
		out = append(out, Landmark{Kind: KindMain, Box: box})
	}
	for i, r := range p.cards {
		out = append(out, Landmark{Kind: KindCard, Index: i, Box: p.toViewport(r), Expanded: p.expanded[i]})
	}
	if box, ok := p.Footer(); ok {
		out = append(out, Landmark{Kind: KindFooter, Box: box})
	}
	return out
}

// CardAt returns the index of the card under a viewport point, or -1.
func (p *Page) CardAt(x, yViewport float64) int {
	absY := yViewport + p.scrollY
	for i, r := range p.cards {
		if r.Contains(x, absY) {
			return i
		}
	}
	return -1
}

// ToggleCard expands or collapses card i, lays the page out again and notifies observers.
func (p *Page) ToggleCard(i int) {
	if i < 0 || i >= len(p.expanded) {
		return
	}
	p.expanded[i] = !p.expanded[i]
	p.layout()
	p.SetScroll(p.scrollY)
	p.notify()
}

// Observe registers fn to be called after landmark geometry changes.
func (p *Page) Observe(fn func()) (cancel func()) {
	id := p.nextObs
	p.nextObs++
	p.observers[id] = fn
	return func() {
		delete(p.observers, id)
	}
}

// Observers returns the number of registered observers.
func (p *Page) Observers() int {
	return len(p.observers)
}

func (p *Page) notify() {
	for _, fn := range p.observers {
		fn()
	}
}
