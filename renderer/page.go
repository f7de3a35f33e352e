package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/needles/page"
	"github.com/pthm-cable/needles/systems"
)

// PageRenderer draws the host page's landmarks over the field.
// The field shows through main; hero, cards and footer are opaque.
type PageRenderer struct {
	HeroColor   rl.Color
	CardColor   rl.Color
	CardBorder  rl.Color
	FooterColor rl.Color
	TextColor   rl.Color
	MutedText   rl.Color
}

// NewPageRenderer creates a page renderer with the default palette.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{
		HeroColor:   rl.Color{R: 236, G: 233, B: 226, A: 255},
		CardColor:   rl.Color{R: 255, G: 255, B: 255, A: 255},
		CardBorder:  rl.Color{R: 214, G: 210, B: 202, A: 255},
		FooterColor: rl.Color{R: 34, G: 34, B: 38, A: 255},
		TextColor:   rl.Color{R: 30, G: 30, B: 34, A: 255},
		MutedText:   rl.Color{R: 120, G: 118, B: 112, A: 255},
	}
}

// Draw renders every landmark that intersects the viewport.
func (r *PageRenderer) Draw(p *page.Page) {
	_, vh := p.Viewport()
	for _, lm := range p.Landmarks() {
		if lm.Box.Bottom < 0 || lm.Box.Top > vh {
			continue
		}
		switch lm.Kind {
		case page.KindHero:
			r.drawHero(lm.Box)
		case page.KindCard:
			r.drawCard(lm)
		case page.KindFooter:
			r.drawFooter(lm.Box)
		}
	}
}

func (r *PageRenderer) drawHero(b systems.Box) {
	rl.DrawRectangleRec(rect(b), r.HeroColor)
	x := int32(b.Left) + 64
	y := int32(b.Bottom) - 160
	rl.DrawText("Needles", x, y, 56, r.TextColor)
	rl.DrawText("An ambient vector field behind the page", x, y+70, 20, r.MutedText)
}

func (r *PageRenderer) drawCard(lm page.Landmark) {
	box := rect(lm.Box)
	rl.DrawRectangleRec(box, r.CardColor)
	rl.DrawRectangleLinesEx(box, 1, r.CardBorder)

	x := int32(lm.Box.Left) + 20
	y := int32(lm.Box.Top) + 20
	rl.DrawText(fmt.Sprintf("Card %d", lm.Index+1), x, y, 20, r.TextColor)

	hint := "Click to expand"
	if lm.Expanded {
		hint = "Click to collapse"
		rl.DrawText("Expanded cards grow the layout and", x, y+60, 16, r.MutedText)
		rl.DrawText("the field reflows around them.", x, y+80, 16, r.MutedText)
	}
	rl.DrawText(hint, x, y+32, 14, r.MutedText)
}

func (r *PageRenderer) drawFooter(b systems.Box) {
	rl.DrawRectangleRec(rect(b), r.FooterColor)
	rl.DrawText("Footer", int32(b.Left)+64, int32(b.Top)+40, 18, rl.LightGray)
}

// rect converts a viewport box to a raylib rectangle.
func rect(b systems.Box) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(b.Left),
		Y:      float32(b.Top),
		Width:  float32(b.Right - b.Left),
		Height: float32(b.Bottom - b.Top),
	}
}
