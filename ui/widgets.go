package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panel primitives in one theme. Every Draw* call returns the
// Y of the next row.
type Renderer struct {
	Theme Theme
}

func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a card behind a block of rows.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	t := r.Theme
	rl.DrawRectangle(x, y, width, height, t.Panel)
	rl.DrawRectangleLines(x, y, width, height, t.PanelEdge)
}

func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeadingSize, r.Theme.Heading)
	return y + r.Theme.Line + 2
}

func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label, x, y, t.TextSize, t.Label)
	rl.DrawText(value, x+t.LabelWidth, y, t.TextSize, t.Value)
	return y + t.Line
}

// DrawBar draws a share in [0, 1] as a filled track with a percentage.
// Shares above warn use the warning fill.
func (r *Renderer) DrawBar(x, y int32, label string, share, warn float32, width int32) int32 {
	t := r.Theme
	share = clamp01(share)

	trackX := x + t.LabelWidth
	trackW := width - t.LabelWidth - 44
	fill := t.Fill
	if share > warn {
		fill = t.FillWarn
	}

	rl.DrawText(label, x, y, t.TextSize, t.Label)
	rl.DrawRectangle(trackX, y+3, trackW, t.TrackHeight, t.Track)
	rl.DrawRectangle(trackX, y+3, int32(float32(trackW)*share), t.TrackHeight, fill)
	rl.DrawText(fmt.Sprintf("%3.0f%%", share*100), trackX+trackW+6, y, t.TextSize, t.Value)
	return y + t.Line + 2
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
