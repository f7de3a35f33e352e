package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/needles/systems"
)

// capSegments is the triangle count of each half-disc cap.
const capSegments = 6

// Surface strokes needles straight into the current raylib frame.
// It must be used between rl.BeginDrawing and rl.EndDrawing.
type Surface struct {
	background rl.Color
	ratio      float64
}

// NewSurface creates a surface that clears to background.
func NewSurface(background color.RGBA) *Surface {
	return &Surface{background: background, ratio: 1}
}

// SetScale records the device pixel ratio. Raylib scales logical coordinates
// itself on high-DPI windows; the ratio only decides whether a stroke is wide
// enough to need drawn caps.
func (s *Surface) SetScale(width, height, ratio float64) {
	s.ratio = ratio
}

// Clear fills the region with the background colour.
func (s *Surface) Clear(width, height float64) {
	rl.ClearBackground(s.background)
}

// StrokeLine draws one segment.
func (s *Surface) StrokeLine(x0, y0, x1, y1 float64, style systems.StrokeStyle) {
	c := rl.ColorAlpha(rl.NewColor(style.Color.R, style.Color.G, style.Color.B, 255), float32(style.Alpha))
	start := rl.Vector2{X: float32(x0), Y: float32(y0)}
	end := rl.Vector2{X: float32(x1), Y: float32(y1)}
	width := float32(style.Width)

	rl.DrawLineEx(start, end, width, c)

	// Sub-pixel caps are invisible. Half discs only, so translucent ends are not painted twice.
	if style.Cap == systems.CapRound && style.Width*s.ratio > 1 {
		sa, ea := systems.CapArcs(x0, y0, x1, y1)
		rl.DrawCircleSector(start, width/2, float32(sa[0]), float32(sa[1]), capSegments, c)
		rl.DrawCircleSector(end, width/2, float32(ea[0]), float32(ea[1]), capSegments, c)
	}
}
