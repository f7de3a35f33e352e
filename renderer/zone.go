package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/needles/systems"
)

// ZoneOverlay visualises the render zone and pointer reach for debugging.
type ZoneOverlay struct {
	BandColor    rl.Color
	BlockedColor rl.Color
	PointerColor rl.Color
}

// NewZoneOverlay creates an overlay with the default palette.
func NewZoneOverlay() *ZoneOverlay {
	return &ZoneOverlay{
		BandColor:    rl.Color{R: 60, G: 140, B: 220, A: 40},
		BlockedColor: rl.Color{R: 220, G: 60, B: 60, A: 200},
		PointerColor: rl.Color{R: 60, G: 180, B: 90, A: 200},
	}
}

// DrawZone shades the vertical band and outlines every blocked rectangle.
// The layout is in page coordinates and is shifted by scrollY.
func (z *ZoneOverlay) DrawZone(layout *systems.LayoutMap, scrollY, width, height float64) {
	top := math.Max(0, layout.StartY-scrollY)
	bottom := math.Min(height, layout.EndY-scrollY)
	if bottom > top {
		rl.DrawRectangleRec(rl.Rectangle{
			X:      0,
			Y:      float32(top),
			Width:  float32(width),
			Height: float32(bottom - top),
		}, z.BandColor)
	}

	for _, r := range layout.Blocked {
		if r.Bottom-scrollY < 0 || r.Top-scrollY > height {
			continue
		}
		rl.DrawRectangleLinesEx(rl.Rectangle{
			X:      float32(r.Left),
			Y:      float32(r.Top - scrollY),
			Width:  float32(r.Right - r.Left),
			Height: float32(r.Bottom - r.Top),
		}, 2, z.BlockedColor)
	}
}

// DrawPointer outlines the pointer's radius of influence.
func (z *ZoneOverlay) DrawPointer(pointer systems.PointerState, radius float64) {
	if !pointer.Active {
		return
	}
	rl.DrawCircleLines(int32(pointer.X), int32(pointer.Y), float32(radius), z.PointerColor)
	rl.DrawCircleV(rl.Vector2{X: float32(pointer.X), Y: float32(pointer.Y)}, 3, z.PointerColor)
}
